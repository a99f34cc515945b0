package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/controllers"
	"callcenter-crm/internal/services"
)

func runContactRouter(g *echo.Group, contactService *services.ContactService, logger *zap.Logger) {
	contactCtrl := controllers.NewContactController(contactService, logger)

	g.GET("/contacts", contactCtrl.GetContacts)
	g.GET("/contacts/:id", contactCtrl.FindContact)
	g.POST("/contacts", contactCtrl.CreateContact)
	g.PUT("/contacts/:id", contactCtrl.UpdateContact)
}
