package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/services"
	apperrors "callcenter-crm/pkg/errors"
	"callcenter-crm/pkg/middleware"
	"callcenter-crm/pkg/utils"
)

// OperatorDeskController is the calling surface: next contact, the call
// screen, outcome submission and the session filters.
type OperatorDeskController struct {
	selectionService *services.SelectionService
	outcomeService   *services.OutcomeService
	contactService   *services.ContactService
	filterService    *services.SessionFilterService
	logger           *zap.Logger
}

func NewOperatorDeskController(
	selectionService *services.SelectionService,
	outcomeService *services.OutcomeService,
	contactService *services.ContactService,
	filterService *services.SessionFilterService,
	logger *zap.Logger,
) *OperatorDeskController {
	return &OperatorDeskController{
		selectionService: selectionService,
		outcomeService:   outcomeService,
		contactService:   contactService,
		filterService:    filterService,
		logger:           logger,
	}
}

// NextContact runs the tiered selection. An exhausted pool is a 200 with an
// empty body, not an error: "nothing to call" is a normal answer.
func (c *OperatorDeskController) NextContact(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	operatorID, err := middleware.OperatorIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	contact, err := c.selectionService.SelectNextContact(reqCtx, operatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoContactAvailable) {
			return utils.SuccessResponse(ctx, nil, "no contact available", http.StatusOK)
		}
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	detail, err := c.contactService.GetContactDetail(reqCtx, contact.ID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, detail, "contact selected", http.StatusOK)
}

func (c *OperatorDeskController) ShowContact(ctx echo.Context) error {
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
	return utils.SuccessResponse(ctx, detail, "contact detail", http.StatusOK)
}

func (c *OperatorDeskController) SubmitOutcome(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	operatorID, err := middleware.OperatorIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	contactID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid contact id", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger)
	}

	var payload dto.SubmitCallOutcomeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	record, err := c.outcomeService.SubmitCallOutcome(reqCtx, operatorID, contactID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, record, "outcome recorded", http.StatusOK)
}

func (c *OperatorDeskController) GetFilters(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	operatorID, err := middleware.OperatorIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filters, err := c.filterService.GetFilters(reqCtx, operatorID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, filters, "session filters", http.StatusOK)
}

func (c *OperatorDeskController) SetFilters(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	operatorID, err := middleware.OperatorIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SelectionFilters
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}

	if err := c.filterService.SetFilters(reqCtx, operatorID, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, payload, "session filters saved", http.StatusOK)
}

func (c *OperatorDeskController) ClearFilters(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	operatorID, err := middleware.OperatorIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.filterService.ClearFilters(reqCtx, operatorID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "session filters cleared", http.StatusOK)
}

func (c *OperatorDeskController) FilterOptions(ctx echo.Context) error {
	options, err := c.filterService.FilterOptions(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, options, "filter options", http.StatusOK)
}
