package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/controllers"
	"callcenter-crm/internal/services"
)

func runAuthRouter(public *echo.Group, secure *echo.Group, authService *services.AuthService, logger *zap.Logger) {
	authCtrl := controllers.NewAuthController(authService, logger)

	public.POST("/auth/login", authCtrl.Login)
	public.POST("/auth/refresh", authCtrl.Refresh)
	secure.GET("/auth/me", authCtrl.Me)
}
