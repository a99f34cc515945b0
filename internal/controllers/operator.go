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

type OperatorController struct {
	operatorService *services.OperatorService
	logger          *zap.Logger
}

func NewOperatorController(operatorService *services.OperatorService, logger *zap.Logger) *OperatorController {
	return &OperatorController{operatorService: operatorService, logger: logger}
}

func (c *OperatorController) GetOperators(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	operators, total, err := c.operatorService.GetOperators(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, operators, "operator list", http.StatusOK, total)
}

func (c *OperatorController) FindOperator(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid operator id", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger)
	}

	operator, err := c.operatorService.FindOperator(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, operator, "operator found", http.StatusOK)
}

func (c *OperatorController) CreateOperator(ctx echo.Context) error {
	var payload dto.CreateOperatorDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.operatorService.CreateOperator(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "operator created", http.StatusCreated)
}

func (c *OperatorController) UpdateOperator(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid operator id", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger)
	}

	var payload dto.UpdateOperatorDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.operatorService.UpdateOperator(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "operator updated", http.StatusOK)
}
