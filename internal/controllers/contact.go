package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/services"
	apperrors "callcenter-crm/pkg/errors"
	"callcenter-crm/pkg/utils"
)

type ContactController struct {
	contactService *services.ContactService
	logger         *zap.Logger
}

func NewContactController(contactService *services.ContactService, logger *zap.Logger) *ContactController {
	return &ContactController{contactService: contactService, logger: logger}
}

func (c *ContactController) GetContacts(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	contacts, total, err := c.contactService.GetContacts(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, contacts, "contact list", http.StatusOK, total)
}

func (c *ContactController) FindContact(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid contact id", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger)
	}

	detail, err := c.contactService.GetContactDetail(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, detail, "contact found", http.StatusOK)
}

func (c *ContactController) CreateContact(ctx echo.Context) error {
	var payload dto.CreateContactDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.contactService.CreateContact(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "contact created", http.StatusCreated)
}

func (c *ContactController) UpdateContact(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid contact id", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger)
	}

	var payload dto.UpdateContactDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.contactService.UpdateContact(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "contact updated", http.StatusOK)
}
