package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/controllers"
	"callcenter-crm/internal/services"
)

func runOperatorRouter(g *echo.Group, operatorService *services.OperatorService, logger *zap.Logger) {
	operatorCtrl := controllers.NewOperatorController(operatorService, logger)

	g.GET("/operators", operatorCtrl.GetOperators)
	g.GET("/operators/:id", operatorCtrl.FindOperator)
	g.POST("/operators", operatorCtrl.CreateOperator)
	g.PUT("/operators/:id", operatorCtrl.UpdateOperator)
}
