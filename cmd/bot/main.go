package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/clients/cache"
	"max.ks1230/earnings-tracker/internal/clients/kafka"
	"max.ks1230/earnings-tracker/internal/clients/tg"
	"max.ks1230/earnings-tracker/internal/config"
	"max.ks1230/earnings-tracker/internal/logger"
	"max.ks1230/earnings-tracker/internal/model/analytics"
	"max.ks1230/earnings-tracker/internal/model/messages"
	"max.ks1230/earnings-tracker/internal/model/records"
	"max.ks1230/earnings-tracker/internal/model/storage"
	"max.ks1230/earnings-tracker/internal/tracing"
)

const metricsReadTimeout = 5 * time.Second

func main() {
	defer logger.Sync()
	logger.Info("Bot init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	tracer, err := tracing.Init(conf.App().Name()+"-bot", conf.Jaeger())
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer tracer.Close()

	client, err := tg.New(conf.Telegram())
	if err != nil {
		logger.Fatal("failed to init client:", zap.Error(err))
	}

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

	recordsService := records.NewService(st, analyticsService, nil)
	if conf.Kafka().Enabled() {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Fatal("failed to init kafka producer:", zap.Error(err))
		}
		defer producer.Close()
		recordsService = records.NewService(st, analyticsService, producer)
	}

	msgService := messages.NewService(client, st, recordsService, analyticsService, conf.App())

	logger.Info("Bot init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if addr := conf.Telegram().MetricsAddress(); addr != "" {
		go serveMetrics(ctx, addr)
	}

	client.ListenUpdates(ctx, msgService)
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: metricsReadTimeout}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Info("metrics server - start", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", zap.Error(err))
	}
}
