package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/exam-appointment-booking/internal/app"
	"github.com/iliyamo/exam-appointment-booking/internal/booking"
	"github.com/iliyamo/exam-appointment-booking/internal/config"
	"github.com/iliyamo/exam-appointment-booking/internal/document"
	"github.com/iliyamo/exam-appointment-booking/internal/handler"
	"github.com/iliyamo/exam-appointment-booking/internal/middleware"
	"github.com/iliyamo/exam-appointment-booking/internal/notify"
	"github.com/iliyamo/exam-appointment-booking/internal/router"
	"github.com/iliyamo/exam-appointment-booking/internal/service"
	"github.com/iliyamo/exam-appointment-booking/internal/verification"
)

func main() {
	cfg := config.Load()
	logger := app.NewLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer closeStore()

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	cal, err := config.LoadScheduleConfig().Calendar(time.Now())
	if err != nil {
		logger.Fatal("schedule", zap.Error(err))
	}
	mailCfg := config.LoadMailConfig()

	deps := booking.Deps{
		Store: store,
		Sessions: verification.NewManager(rdb, cfg.CodeTTL,
			verification.WithBcryptCost(cfg.BcryptCost),
			verification.WithRetention(cfg.SessionTTL)),
		Notifier:      notify.NewMailer(mailCfg, cfg.DefaultLang),
		Documents:     document.NewRenderer(mailCfg.VenueLabel, mailCfg.VenueMapURL, mailCfg.LogoPath),
		Calendar:      cal,
		Logger:        logger,
		NotifyTimeout: cfg.NotifyTimeout,
	}
	if cfg.RabbitURL != "" {
		deps.Events = service.NewPublisher(cfg.RabbitURL)
	}
	svc := booking.NewService(deps)

	if _, err := svc.InitializeSlots(ctx); err != nil {
		logger.Fatal("slots", zap.Error(err))
	}

	renderer, err := handler.NewRenderer()
	if err != nil {
		logger.Fatal("templates", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	router.Use(e, router.Options{
		Logger:        logger,
		SessionSecret: cfg.SessionKey,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.Env == "production",
		CSRFEnabled:   cfg.CSRFEnabled,
		CORSOrigins:   cfg.CORSOrigins,
	})
	router.RegisterRoutes(e)
	router.RegisterBooking(e,
		handler.NewBookingHandler(svc, cfg.DefaultLang, logger),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, logger))

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("db", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("stopped")
}
