package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joao-fontenele/storefront-admin/internal/adminapi"
	"github.com/joao-fontenele/storefront-admin/internal/config"
	"github.com/joao-fontenele/storefront-admin/internal/messaging"
	"github.com/joao-fontenele/storefront-admin/internal/telemetry"
	"github.com/joao-fontenele/storefront-admin/internal/worker"
)

var version = "0.1.0"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config.LoadDotEnv()
	cfg, err := config.LoadWorker()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tel, err := config.LoadTelemetry()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	svc := telemetry.Service{Name: "notification-worker", Version: version, Endpoint: tel.Endpoint, SampleRatio: tel.SampleRatio}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, svc)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	consumer := messaging.NewConsumer(cfg.KafkaBrokers, messaging.TopicOrderFinalized, "notification-worker", logger)
	defer func() { _ = consumer.Close() }()

	httpClient := telemetry.NewHTTPClient(10 * time.Second)
	catalogClient := adminapi.NewClient(cfg.CatalogServiceURL, httpClient)
	notificationHandler := worker.NewNotificationHandler(cfg.EmailServiceURL, catalogClient, httpClient, logger)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting notification worker", "brokers", cfg.KafkaBrokers, "topic", messaging.TopicOrderFinalized)

	if err := consumer.Consume(ctx, notificationHandler.Handle); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
