package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/services"
	"callcenter-crm/pkg/utils"
)

type MaintenanceController struct {
	maintenanceService *services.MaintenanceService
	logger             *zap.Logger
}

func NewMaintenanceController(maintenanceService *services.MaintenanceService, logger *zap.Logger) *MaintenanceController {
	return &MaintenanceController{maintenanceService: maintenanceService, logger: logger}
}

// RunCleanup triggers the sweep on demand. The same service method is what
// a cron caller hits daily; the endpoint exists so an admin can run it early.
func (c *MaintenanceController) RunCleanup(ctx echo.Context) error {
	result, err := c.maintenanceService.RunCleanup(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "maintenance sweep finished", http.StatusOK)
}
