package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/amani-care/report-backend/internal/api"
	"github.com/amani-care/report-backend/internal/auth"
	"github.com/amani-care/report-backend/internal/calendarapi"
	"github.com/amani-care/report-backend/internal/config"
	"github.com/amani-care/report-backend/internal/db"
	"github.com/amani-care/report-backend/internal/instructions"
	"github.com/amani-care/report-backend/internal/logging"
	"github.com/amani-care/report-backend/internal/mail"
	"github.com/amani-care/report-backend/internal/places"
	redisclient "github.com/amani-care/report-backend/internal/redis"
	"github.com/amani-care/report-backend/internal/report"
	"github.com/amani-care/report-backend/internal/schedule"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("version", version))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("error closing redis", zap.Error(err))
		}
	}()
	logger.Info("connected to Redis")

	locker := redisclient.NewRedisWindowLocker(rdb, cfg.LockTTL)
	calendar := calendarapi.NewClient(cfg.CalendarBaseURL, cfg.ExternalTimeout)
	mailer := mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	scheduleSvc := schedule.NewService(schedule.NewPgRepository(pgPool), locker, calendar, mailer, logger, cfg.ExternalTimeout)
	authSvc := auth.NewService(auth.NewPgRepository(pgPool), cfg.JWTSecret, cfg.TokenTTL, cfg.MaxLoginAttempts, logger)
	reportSvc := report.NewService(report.NewPgRepository(pgPool), logger)

	routerCfg := api.RouterConfig{
		Schedule: scheduleSvc,
		Auth:     authSvc,
		Reports:  reportSvc,
		Places:   places.NewClient(cfg.PlacesBaseURL, cfg.ExternalTimeout),
		Logger:   logger,
		PgPool:   pgPool,
		Redis:    rdb,
		Env:      cfg.Env,
		Version:  version,
	}

	// The instructions endpoint only mounts when an API key is configured.
	if cfg.GenAIAPIKey != "" {
		gen, err := instructions.NewGenerator(cfg.GenAIBaseURL, cfg.GenAIAPIKey, cfg.GenAIModel, cfg.ExternalTimeout)
		if err != nil {
			logger.Fatal("instructions generator init error", zap.Error(err))
		}
		routerCfg.Instructions = gen
	} else {
		logger.Info("GENAI_API_KEY not set, instructions endpoint disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("api-server stopped")
}
