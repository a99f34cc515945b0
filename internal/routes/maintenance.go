package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/controllers"
	"callcenter-crm/internal/services"
)

func runMaintenanceRouter(g *echo.Group, maintenanceService *services.MaintenanceService, logger *zap.Logger) {
	maintenanceCtrl := controllers.NewMaintenanceController(maintenanceService, logger)

	g.POST("/maintenance/cleanup", maintenanceCtrl.RunCleanup)
}
