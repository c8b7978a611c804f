package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/exam-appointment-booking/internal/app"
	"github.com/iliyamo/exam-appointment-booking/internal/config"
	"github.com/iliyamo/exam-appointment-booking/internal/queue"
)

func main() {
	cfg := config.LoadWorker()
	logger := app.NewLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: cfg.RabbitURL, LogDir: cfg.LogDir, Log: logger.Named("appointment-consumer")}
	logger.Info("consuming", zap.String("queue", queue.AppointmentConfirmedQueue))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("consumer", zap.Error(err))
	}
}
