package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/deiondz/udal-gp/api/swagger"
	"github.com/deiondz/udal-gp/internal/handler"
	"github.com/deiondz/udal-gp/internal/middleware"
	"github.com/deiondz/udal-gp/internal/models"
	"github.com/deiondz/udal-gp/internal/repository"
	"github.com/deiondz/udal-gp/internal/service"
	"github.com/deiondz/udal-gp/pkg/cache"
	"github.com/deiondz/udal-gp/pkg/config"
	"github.com/deiondz/udal-gp/pkg/database"
	"github.com/deiondz/udal-gp/pkg/export"
	"github.com/deiondz/udal-gp/pkg/logger"
	corsmiddleware "github.com/deiondz/udal-gp/pkg/middleware/cors"
	reqidmiddleware "github.com/deiondz/udal-gp/pkg/middleware/requestid"
)

// @title Udal GP API
// @version 1.0.0
// @description Waste-management administration API for Gram Panchayats and MRF units
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	// The dashboard works without redis; a missing cache only costs latency.
	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	panchayatRepo := repository.NewPanchayatRepository(db)
	mrfRepo := repository.NewMRFRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	accountSvc := service.NewAccountService(userRepo, sessionRepo, logr, service.AccountConfig{
		Secret:           cfg.Auth.Secret,
		TokenExpiry:      cfg.Auth.TokenExpiration,
		SessionExpiry:    cfg.Auth.SessionExpiration,
		ImpersonationTTL: cfg.Auth.ImpersonationTTL,
		Issuer:           cfg.Auth.Issuer,
	})
	adminSvc := service.NewAdminService(accountSvc, nil, logr)
	panchayatSvc := service.NewPanchayatService(panchayatRepo, accountSvc, cacheSvc, nil, logr)
	mrfSvc := service.NewMRFService(mrfRepo, nil, logr)
	performanceSvc := service.NewPerformanceService(metricsRepo, cacheSvc, nil, logr)
	dashboardSvc := service.NewDashboardService(panchayatRepo, metricsRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	reportSvc := service.NewReportService(panchayatRepo, metricsRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(accountSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)
	panchayatHandler := handler.NewPanchayatHandler(panchayatSvc)
	mrfHandler := handler.NewMRFHandler(mrfSvc)
	performanceHandler := handler.NewPerformanceHandler(performanceSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", middleware.JWT(accountSvc), authHandler.Me)

	admin := api.Group("")
	admin.Use(middleware.JWT(accountSvc), middleware.RequireRoles(models.RoleAdmin))

	admin.GET("/panchayats", panchayatHandler.List)
	admin.POST("/panchayats", panchayatHandler.Create)
	admin.GET("/panchayats/:id", panchayatHandler.Get)
	admin.PATCH("/panchayats/:id", panchayatHandler.Update)
	admin.DELETE("/panchayats/:id", panchayatHandler.Delete)
	admin.PUT("/panchayats/:id/mrf", panchayatHandler.MapMRF)
	admin.DELETE("/panchayats/:id/mrf", panchayatHandler.UnmapMRF)
	admin.GET("/panchayats/:id/metrics", performanceHandler.History)
	admin.GET("/panchayats/:id/metrics/latest", performanceHandler.Latest)

	admin.GET("/mrfs", mrfHandler.List)
	admin.POST("/mrfs", mrfHandler.Create)
	admin.GET("/mrfs/:id", mrfHandler.Get)
	admin.PATCH("/mrfs/:id", mrfHandler.Update)
	admin.DELETE("/mrfs/:id", mrfHandler.Delete)

	admin.POST("/metrics", performanceHandler.Record)

	admin.GET("/dashboard/summary", dashboardHandler.Summary)
	admin.GET("/dashboard/trend", dashboardHandler.Trend)

	if cfg.Reports.Enabled {
		admin.GET("/reports/panchayats", reportHandler.Panchayats)
	}

	admin.GET("/admin/users", adminHandler.ListUsers)
	admin.POST("/admin/users", adminHandler.CreateUser)
	admin.GET("/admin/users/:id", adminHandler.GetUser)
	admin.PATCH("/admin/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/admin/users/:id", adminHandler.DeleteUser)
	admin.PUT("/admin/users/:id/role", adminHandler.SetRole)
	admin.PUT("/admin/users/:id/password", adminHandler.SetPassword)
	admin.POST("/admin/users/:id/ban", adminHandler.BanUser)
	admin.DELETE("/admin/users/:id/ban", adminHandler.UnbanUser)
	admin.POST("/admin/users/:id/impersonate", adminHandler.ImpersonateUser)
	admin.GET("/admin/users/:id/sessions", adminHandler.ListSessions)
	admin.DELETE("/admin/users/:id/sessions", adminHandler.RevokeAllSessions)
	admin.POST("/admin/sessions/revoke", adminHandler.RevokeSession)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
