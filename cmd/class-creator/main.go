package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/class-creator-api/api/swagger"
	"github.com/noah-isme/class-creator-api/internal/handler"
	"github.com/noah-isme/class-creator-api/internal/middleware"
	"github.com/noah-isme/class-creator-api/internal/models"
	"github.com/noah-isme/class-creator-api/internal/repository"
	"github.com/noah-isme/class-creator-api/internal/service"
	"github.com/noah-isme/class-creator-api/internal/validator"
	"github.com/noah-isme/class-creator-api/pkg/cache"
	"github.com/noah-isme/class-creator-api/pkg/config"
	"github.com/noah-isme/class-creator-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/class-creator-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/class-creator-api/pkg/middleware/requestid"
	"github.com/noah-isme/class-creator-api/pkg/storage"
)

// @title Class Creator API
// @version 1.0.0
// @description Class request intake, admin review and bulk upload export
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

	ctx := context.Background()
	validate := validator.New()

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	creds := make([]repository.UserCredential, 0, len(cfg.Auth.Users))
	for _, u := range cfg.Auth.Users {
		creds = append(creds, repository.UserCredential{Username: u.Username, Password: u.Password, Role: u.Role})
	}
	userRepo, err := repository.NewUserRepository(creds)
	if err != nil {
		logr.Sugar().Fatalw("failed to build user table", "error", err)
	}

	lookups, err := repository.NewLookupRepository(cfg.Paths.LookupsFile).Load(ctx)
	if err != nil {
		logr.Warn("lookups file unreadable, using built-in tables", zap.Error(err))
	}

	exportStore, err := storage.NewLocalStorage(cfg.Paths.ExportDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export dir", "error", err)
	}
	historyStore, err := storage.NewLocalStorage(cfg.Paths.HistoryDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare history dir", "error", err)
	}

	var redisClient *redis.Client
	if cfg.Catalog.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis, 5*time.Second)
		if err != nil {
			logr.Warn("catalog cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}
	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, "class-creator", logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, true)
	}

	catalogSvc := service.NewCatalogService(
		repository.NewCatalogRepository(cfg.Paths.CatalogFile, logr),
		cacheSvc,
		metricsSvc,
		validate,
		logr,
		cfg.Catalog.CacheTTL,
	)
	requestSvc := service.NewRequestService(repository.NewRequestRepository(), validate, metricsSvc, logr, service.RequestConfig{
		MaxSlugsPerSubmission: cfg.Requests.MaxSlugsPerSubmission,
		DefaultStartTime:      cfg.Requests.DefaultStartTime,
	})
	transformSvc := service.NewTransformService(lookups, service.TransformConfig{
		MeetingDuration: cfg.Export.DefaultMeetingDuration,
		TimeZone:        cfg.Export.TimeZone,
	}, logr)
	exportSvc := service.NewExportService(
		requestSvc,
		catalogSvc,
		repository.NewGradeMasterRepository(cfg.Paths.GradeMasterFile),
		transformSvc,
		exportStore,
		repository.NewHistoryRepository(historyStore),
		storage.NewSignedURLSigner(cfg.Export.SignedURLSecret, cfg.Export.SignedURLTTL),
		metricsSvc,
		service.ExportConfig{APIPrefix: cfg.APIPrefix},
		logr,
	)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	checks := map[string]handler.ReadinessCheck{
		"exports": func() error { return dirWritable(cfg.Paths.ExportDir) },
		"history": func() error { return dirWritable(cfg.Paths.HistoryDir) },
	}
	if redisClient != nil {
		checks["redis"] = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx).Err()
		}
	}

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(catalogSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/exports/:token", exportHandler.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))
	secured.GET("/auth/me", authHandler.Me)
	secured.GET("/courses/codes", courseHandler.Codes)
	secured.POST("/requests", requestHandler.Submit)
	secured.GET("/requests", requestHandler.List)
	secured.GET("/requests/report", requestHandler.Report)

	admin := secured.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/courses", courseHandler.List)
	admin.GET("/courses/workbook", courseHandler.Workbook)
	admin.GET("/courses/:code", courseHandler.Get)
	admin.POST("/courses", middleware.Audit(logr, "course.create"), courseHandler.Create)
	admin.PUT("/courses", middleware.Audit(logr, "course.replace_all"), courseHandler.Replace)
	admin.POST("/courses/normalize", middleware.Audit(logr, "course.normalize"), courseHandler.Normalize)
	admin.PUT("/courses/:code", middleware.Audit(logr, "course.upsert"), courseHandler.Upsert)
	admin.DELETE("/courses/:code", middleware.Audit(logr, "course.delete"), courseHandler.Delete)
	admin.POST("/requests/approve-all", middleware.Audit(logr, "request.approve_all"), requestHandler.ApproveAll)
	admin.POST("/requests/deny-all", middleware.Audit(logr, "request.deny_all"), requestHandler.DenyAll)
	admin.DELETE("/requests/approved", middleware.Audit(logr, "request.clear_approved"), requestHandler.ClearApproved)
	admin.POST("/requests/:id/approve", middleware.Audit(logr, "request.approve"), requestHandler.Approve)
	admin.POST("/requests/:id/deny", middleware.Audit(logr, "request.deny"), requestHandler.Deny)
	admin.POST("/exports", middleware.Audit(logr, "export.create"), exportHandler.Create)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func dirWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
