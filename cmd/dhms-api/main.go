package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/aau-dhms/dhms-api/api/swagger"
	"github.com/aau-dhms/dhms-api/internal/handler"
	"github.com/aau-dhms/dhms-api/internal/repository"
	"github.com/aau-dhms/dhms-api/internal/router"
	"github.com/aau-dhms/dhms-api/internal/service"
	"github.com/aau-dhms/dhms-api/pkg/cache"
	"github.com/aau-dhms/dhms-api/pkg/codegen"
	"github.com/aau-dhms/dhms-api/pkg/config"
	"github.com/aau-dhms/dhms-api/pkg/database"
	"github.com/aau-dhms/dhms-api/pkg/export"
	"github.com/aau-dhms/dhms-api/pkg/logger"
)

// @title DHMS API
// @version 1.0.0
// @description Dormitory operations backend: maintenance, laundry, room assignment and penalties
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	laundryRepo := repository.NewLaundryRepository(db)
	penaltyRepo := repository.NewPenaltyRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	codes := codegen.New(nil)

	auditService := service.NewAuditService(auditRepo, service.AuditConfig{
		Enabled:    cfg.Audit.Enabled,
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
	}, logr)
	auditService.Start(ctx)
	defer auditService.Stop()

	authService := service.NewAuthService(userRepo, codes, validate, logr, auditService, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "dhms-api",
		Audience:           []string{"dhms"},
	})
	maintenanceService := service.NewMaintenanceService(maintenanceRepo, codes, validate, logr, auditService, cfg.Codes.MaxAttempts)
	laundryService := service.NewLaundryService(laundryRepo, codes, validate, logr, auditService, cfg.Codes.MaxAttempts)
	assignmentService := service.NewAssignmentService(assignmentRepo, roomRepo, studentRepo, userRepo, validate, logr, auditService)
	roomService := service.NewRoomService(roomRepo, logr)
	penaltyService := service.NewPenaltyService(penaltyRepo, studentRepo, codes, validate, logr, auditService, cfg.Codes.MaxAttempts)
	dashboardService := service.NewDashboardService(maintenanceRepo, laundryRepo, penaltyRepo, studentRepo, assignmentService, cacheRepo, logr, service.DashboardConfig{
		CacheEnabled: cfg.Dashboard.CacheEnabled,
		CacheTTL:     cfg.Dashboard.CacheTTL,
	})
	metricsService := service.NewMetricsService()

	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Student:  handler.NewStudentHandler(dashboardService, maintenanceService, laundryService, assignmentService, penaltyService, export.NewSlipRenderer(), cfg.PublicURL),
		Proctor:  handler.NewProctorHandler(dashboardService, maintenanceService, laundryService, assignmentService, penaltyService, export.NewLedgerWriter()),
		Staff:    handler.NewStaffHandler(dashboardService, maintenanceService),
		Security: handler.NewSecurityHandler(dashboardService, laundryService, metricsService),
		Public:   handler.NewPublicLaundryHandler(laundryService, metricsService),
		Rooms:    handler.NewRoomHandler(roomService),
		Metrics:  handler.NewMetricsHandler(metricsService, db),
	}

	engine := router.New(cfg, logr, authService, metricsService, handlers)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}

	if redisClient != nil {
		if err := cacheRepo.Close(); err != nil {
			logr.Sugar().Warnw("failed to close redis", "error", err)
		}
	}
}
