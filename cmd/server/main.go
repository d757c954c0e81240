package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tourneyhub/docs"
	"tourneyhub/internal/auth"
	"tourneyhub/internal/cache"
	"tourneyhub/internal/config"
	"tourneyhub/internal/db"
	"tourneyhub/internal/handler"
	"tourneyhub/internal/logger"
	"tourneyhub/internal/moderation"
	"tourneyhub/internal/router"
	"tourneyhub/internal/service"
	"tourneyhub/internal/storage"
	"tourneyhub/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// @title Tourneyhub API
// @version 1.0
// @description Paid tournaments and raffles: events, payment evidence review and chat moderation.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session_token
// @description Signed session token set by /auth/login and /auth/register.
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer func() { _ = zap.L().Sync() }()

	if err := cfg.Validate(); err != nil {
		zap.L().Fatal("invalid configuration", zap.String("env", cfg.Environment), zap.Error(err))
	}

	shutdownTracing := telemetry.Setup("tourneyhub")

	repos, closeDB, err := db.OpenRepositories(cfg.DBDriver, cfg.DSN(), cfg.ResetDB)
	if err != nil {
		zap.L().Fatal("database init", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if cfg.ResetDB {
		zap.L().Warn("RESET_DB set, tables were dropped before migration")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		zap.L().Warn("redis unreachable, running without cache or session revocation", zap.Error(err))
	}
	cancelPing()

	evidence, err := storage.NewLocalStore(cfg.UploadDir, cfg.EvidenceBaseURL, cfg.MaxEvidenceBytes)
	if err != nil {
		zap.L().Fatal("evidence store init", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	moderator := moderation.NewClient(cfg.ModerationAPIKey, cfg.ModerationAPIURL, cfg.ModerationModel, cfg.ModerationTimeout)
	if !moderator.IsAvailable() {
		zap.L().Warn("MODERATION_API_KEY not set, moderation checks will answer 503")
	}

	// Initialize auth components
	tokenStore := auth.NewTokenStore(cacheClient)
	sessions := auth.NewSessionStore(cfg.SessionSecret, cfg.SessionTTL, tokenStore)

	// Initialize services
	authService := service.NewAuthService(repos.Users, sessions)
	employeeService := service.NewEmployeeService(repos.Users, cacheClient)
	eventService := service.NewEventService(repos.Events, cacheClient)
	paymentService := service.NewPaymentService(repos.Events, repos.Payments, repos.PaymentLogs, evidence)
	moderationService := service.NewModerationService(moderator)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.CookieConfig{
			Name:   cfg.SessionCookieName,
			Secure: cfg.IsProduction(),
			TTL:    sessions.TTL(),
		}),
		Employees:   handler.NewEmployeeHandler(employeeService),
		Events:      handler.NewEventHandler(eventService),
		Payments:    handler.NewPaymentHandler(paymentService),
		Moderation:  handler.NewModerationHandler(moderationService),
		Sessions:    sessions,
		Permissions: employeeService,
	})

	docs.SwaggerInfo.Host = swaggerHost(cfg.SwaggerHost)
	zap.L().Info("swagger documentation available", zap.String("path", "/swagger/index.html"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		zap.L().Info("server starting", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("http shutdown", zap.Error(err))
	}
	paymentService.Close()
	if err := cacheClient.Close(); err != nil {
		zap.L().Warn("redis close", zap.Error(err))
	}
	if err := closeDB(); err != nil {
		zap.L().Warn("database close", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zap.L().Warn("tracer shutdown", zap.Error(err))
	}
}

// swaggerHost strips any scheme, since swag expects a bare host.
func swaggerHost(host string) string {
	host = strings.TrimPrefix(host, "https://")
	return strings.TrimPrefix(host, "http://")
}
