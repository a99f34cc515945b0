package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/controllers"
	"callcenter-crm/internal/services"
)

func runDeskRouter(
	g *echo.Group,
	selectionService *services.SelectionService,
	outcomeService *services.OutcomeService,
	contactService *services.ContactService,
	filterService *services.SessionFilterService,
	logger *zap.Logger,
) {
	deskCtrl := controllers.NewOperatorDeskController(selectionService, outcomeService, contactService, filterService, logger)

	g.POST("/desk/next", deskCtrl.NextContact)
	g.GET("/desk/contacts/:id", deskCtrl.ShowContact)
	g.POST("/desk/contacts/:id/outcome", deskCtrl.SubmitOutcome)
	g.GET("/desk/filters", deskCtrl.GetFilters)
	g.PUT("/desk/filters", deskCtrl.SetFilters)
	g.DELETE("/desk/filters", deskCtrl.ClearFilters)
	g.GET("/desk/filter-options", deskCtrl.FilterOptions)
}
