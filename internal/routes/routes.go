package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"callcenter-crm/internal/repositories"
	"callcenter-crm/internal/services"
	"callcenter-crm/pkg/config"
	"callcenter-crm/pkg/filestorage"
	"callcenter-crm/pkg/middleware"
	"callcenter-crm/pkg/service"
)

// InitRouter builds the whole dependency graph and mounts every route
// group. /api/auth/login and /api/auth/refresh are the only endpoints
// outside the auth middleware.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	fileStorage, err := filestorage.NewLocalFileStorage("uploads")
	if err != nil {
		logger.Fatal("failed to create file storage", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn)

	// Repositories.
	contactRepo := repositories.NewContactRepository(dbConn)
	selectionRepo := repositories.NewContactSelectionRepository(dbConn)
	callRecordRepo := repositories.NewCallRecordRepository(dbConn)
	operatorRepo := repositories.NewOperatorRepository(dbConn)
	vratkaRepo := repositories.NewVratkaRepository(dbConn)
	filterCache := repositories.NewFilterCacheRepository(redisClient)

	// Services.
	lockingService := services.NewLockingService(selectionRepo, cfg.Calling.LockTTL, logger)
	selectionService := services.NewSelectionService(selectionRepo, filterCache, txManager, lockingService, logger)
	outcomeService := services.NewOutcomeService(contactRepo, callRecordRepo, operatorRepo, txManager, lockingService, logger)
	maintenanceService := services.NewMaintenanceService(contactRepo, lockingService, logger)
	filterService := services.NewSessionFilterService(filterCache, contactRepo, cfg.Calling.FilterTTL, logger)
	contactService := services.NewContactService(contactRepo, callRecordRepo, vratkaRepo, logger)
	operatorService := services.NewOperatorService(operatorRepo, logger)
	authService := services.NewAuthService(operatorRepo, jwtSvc, logger)
	importService := services.NewImportService(contactRepo, vratkaRepo, txManager, fileStorage, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authService, logger)
	runDeskRouter(secureGroup, selectionService, outcomeService, contactService, filterService, logger)
	runContactRouter(secureGroup, contactService, logger)
	runOperatorRouter(secureGroup, operatorService, logger)
	runImportRouter(secureGroup, importService, logger)
	runMaintenanceRouter(secureGroup, maintenanceService, logger)

	logger.Info("router initialized")
}
