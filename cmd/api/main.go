package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/climate-risk-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/climate-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/climate-risk-service/internal/adapter/power"
	"github.com/couchcryptid/climate-risk-service/internal/collector"
	"github.com/couchcryptid/climate-risk-service/internal/config"
	"github.com/couchcryptid/climate-risk-service/internal/domain"
	"github.com/couchcryptid/climate-risk-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := power.NewClient(cfg.PowerBaseURL, cfg.PowerTimeout, cfg.PowerRetries, logger, metrics)
	provider := power.NewCachedProvider(client, cfg.PowerCacheSize, metrics)
	coll := collector.New(provider, logger)

	engine, err := domain.NewEngine(cfg.Thresholds(), cfg.Coverage(), cfg.ConfidenceLevel, cfg.SignificanceLevel)
	if err != nil {
		logger.Error("failed to build risk engine", "error", err)
		os.Exit(1)
	}

	// Publishing is feature-flagged via KAFKA_BROKERS.
	var publisher httpapi.AssessmentPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.PublishingEnabled() {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger, metrics)
		publisher = kafkaPublisher
		logger.Info("assessment publishing enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("assessment publishing disabled")
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, coll, engine, publisher, httpapi.Defaults{
		WindowDays: cfg.DefaultWindowDays,
		StartYear:  cfg.BaselineStartYear,
		EndYear:    cfg.BaselineEndYear,
		Thresholds: cfg.Thresholds(),
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
