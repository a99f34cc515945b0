package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/services"
	apperrors "callcenter-crm/pkg/errors"
	"callcenter-crm/pkg/utils"
)

type ImportController struct {
	importService *services.ImportService
	logger        *zap.Logger
}

func NewImportController(importService *services.ImportService, logger *zap.Logger) *ImportController {
	return &ImportController{importService: importService, logger: logger}
}

func (c *ImportController) openUpload(ctx echo.Context) (multipart.File, string, error) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, "", apperrors.NewHttpError(http.StatusBadRequest, "form field 'file' is required", err, nil)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, "", apperrors.NewHttpError(http.StatusBadRequest, "failed to open uploaded file", err, nil)
	}
	return src, fileHeader.Filename, nil
}

func (c *ImportController) ImportContacts(ctx echo.Context) error {
	src, filename, err := c.openUpload(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer src.Close()

	result, err := c.importService.ImportContacts(ctx.Request().Context(), src, filename)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "contact import finished", http.StatusOK)
}

func (c *ImportController) ImportVratky(ctx echo.Context) error {
	src, filename, err := c.openUpload(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer src.Close()

	result, err := c.importService.ImportVratky(ctx.Request().Context(), src, filename)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "vratka import finished", http.StatusOK)
}
