package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/clients/cache"
	"max.ks1230/earnings-tracker/internal/clients/kafka"
	"max.ks1230/earnings-tracker/internal/config"
	"max.ks1230/earnings-tracker/internal/logger"
	"max.ks1230/earnings-tracker/internal/model/analytics"
	"max.ks1230/earnings-tracker/internal/model/reports"
	"max.ks1230/earnings-tracker/internal/model/storage"
	"max.ks1230/earnings-tracker/internal/tracing"
)

func main() {
	defer logger.Sync()
	logger.Info("Reporter init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}
	if !conf.Kafka().Enabled() {
		logger.Fatal("kafka brokers are not configured")
	}

	tracer, err := tracing.Init(conf.App().Name()+"-reporter", conf.Jaeger())
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer tracer.Close()

	st, closeStorage, err := storage.Open(conf.Postgres())
	if err != nil {
		logger.Fatal("failed to init storage:", zap.Error(err))
	}
	defer closeStorage()

	reportCache, err := cache.New(conf.Cache())
	if err != nil {
		logger.Fatal("failed to init cache:", zap.Error(err))
	}
	defer func() {
		if err := cache.Close(reportCache); err != nil {
			logger.Error("failed to close cache", zap.Error(err))
		}
	}()

	location := conf.App().Location()
	analyticsService := analytics.NewService(st, reportCache, analytics.NewAggregator(func() time.Time {
		return time.Now().In(location)
	}))

	consumer, err := kafka.NewConsumer(conf.Kafka(), reports.NewWarmer(conf.App(), analyticsService))
	if err != nil {
		logger.Fatal("failed to init kafka consumer", zap.Error(err))
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Error("failed to close consumer", zap.Error(err))
		}
	}()

	logger.Info("Reporter init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err = consumer.StartConsuming(ctx); err != nil {
		logger.Error("consumer stopped with error", zap.Error(err))
	}
}
