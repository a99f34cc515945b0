package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/controllers"
	"callcenter-crm/internal/services"
)

func runImportRouter(g *echo.Group, importService *services.ImportService, logger *zap.Logger) {
	importCtrl := controllers.NewImportController(importService, logger)

	g.POST("/imports/contacts", importCtrl.ImportContacts)
	g.POST("/imports/vratky", importCtrl.ImportVratky)
}
