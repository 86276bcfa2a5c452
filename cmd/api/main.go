package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/heliowatch/spaceweather/internal/adapter/httpapi"
	kafkaadapter "github.com/heliowatch/spaceweather/internal/adapter/kafka"
	"github.com/heliowatch/spaceweather/internal/adapter/swpc"
	"github.com/heliowatch/spaceweather/internal/config"
	"github.com/heliowatch/spaceweather/internal/domain"
	"github.com/heliowatch/spaceweather/internal/observability"
	"github.com/heliowatch/spaceweather/internal/quality"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	breaker := quality.NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown, cfg.BreakerMaxProbes, clock,
		func(url string, from, to quality.BreakerState) {
			metrics.BreakerTransitions.WithLabelValues(to.String()).Inc()
			logger.Warn("circuit breaker transition", "url", url, "from", from, "to", to)
		})

	// Separate caches: fetchCache holds validated upstream payloads keyed
	// by source URL, respCache holds rendered API responses.
	fetchCache := quality.NewCache(cfg.CacheMaxSize, cfg.CacheTTL, clock)
	respCache := quality.NewCache(cfg.CacheMaxSize, cfg.ResponseCacheTTL, clock)

	fetcher := quality.NewFetcher(http.DefaultClient, breaker, fetchCache, clock, logger, metrics)
	catalog := swpc.NewCatalog(cfg.SWPCBaseURL, cfg.SWPCMirrors)

	// Report sink is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var sink domain.ReportSink
	if cfg.KafkaEnabled {
		kafkaSink := kafkaadapter.NewSink(cfg.KafkaBrokers, cfg.KafkaTopic, logger, metrics)
		sink = kafkaSink
		logger.Info("kafka report sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka report sink disabled")
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, fetcher, catalog, respCache, sink, clock, logger, metrics, httpapi.Options{
		FetchTimeout:     cfg.FetchTimeout,
		FetchRetries:     cfg.FetchRetries,
		RetryDelay:       cfg.RetryDelay,
		ResponseCacheTTL: cfg.ResponseCacheTTL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background expiry sweepers for both cache layers.
	go fetchCache.Sweep(ctx, cfg.CacheSweepInterval)
	go respCache.Sweep(ctx, cfg.CacheSweepInterval)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("space weather api started", "addr", cfg.HTTPAddr, "upstream", cfg.SWPCBaseURL, "mirrors", len(cfg.SWPCMirrors))

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			logger.Error("report sink close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
