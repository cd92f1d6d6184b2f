package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"veil/internal/anonymity"
	"veil/internal/audit"
	"veil/internal/capture"
	"veil/internal/capture/handler"
	"veil/internal/consent"
	"veil/internal/jwttoken"
	"veil/internal/platform/config"
	"veil/internal/platform/httpserver"
	"veil/internal/platform/logger"
	"veil/internal/platform/metrics"
	"veil/internal/platform/middleware"
	platformredis "veil/internal/platform/redis"
	"veil/internal/sink"
)

// main wires one pipeline instance for the process, exposes the ingestion
// router, and keeps the server lifecycle small. Pipeline logic lives in the
// internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prefs := buildPreferenceStore(cfg, log)

	auditStore, closeAudit := buildAuditStore(cfg, log)
	defer closeAudit()
	publisher := audit.NewPublisher(256)
	worker := audit.NewWorker(auditStore, publisher.Inbox(), log)

	onlyAnonymous := cfg.OnlyAnonymous
	optedOut := false
	if pref, ok, err := prefs.Get(ctx, "default"); err == nil && ok {
		onlyAnonymous = onlyAnonymous || pref.OnlyAnonymous
		optedOut = pref.OptedOut
	}

	signalFn := anonymity.SignalFunc(func() bool {
		return optedOut || anonymity.EnvSignal{}.DoNotTrack()
	})

	pipeline := capture.New(
		capture.Config{
			Sink: sink.Config{
				APIKey:   cfg.Sink.APIKey,
				Endpoint: cfg.Sink.Endpoint,
			},
			OnlyAnonymous: onlyAnonymous,
			Signal:        signalFn,
		},
		func(opts sink.Options) (sink.Sink, error) {
			return sink.NewLogSink(log, opts), nil
		},
		capture.WithLogger(log),
		capture.WithMetrics(m),
		capture.WithAudit(publisher),
	)

	router := chi.NewRouter()
	handler.New(pipeline, prefs, log, buildAuth(cfg, log)).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting veil relay",
		"addr", cfg.Addr,
		"initialised", pipeline.IsInitialised(),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("relay exited with error", "error", err)
		os.Exit(1)
	}
}

func buildPreferenceStore(cfg config.Relay, log *slog.Logger) consent.Store {
	if cfg.Redis.URL != "" {
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, using in-memory preferences", "error", err)
		} else if client != nil {
			return consent.NewRedisStore(client.Client)
		}
	}
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Warn("postgres unavailable, using in-memory preferences", "error", err)
		} else {
			return consent.NewPostgresStore(db)
		}
	}
	return consent.NewInMemoryStore()
}

func buildAuditStore(cfg config.Relay, log *slog.Logger) (audit.Store, func()) {
	if len(cfg.Kafka.Brokers) > 0 {
		store, err := audit.NewKafkaStore(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Warn("kafka unavailable, using in-memory audit store", "error", err)
		} else {
			return store, func() { _ = store.Close() }
		}
	}
	return audit.NewInMemoryStore(), func() {}
}

func buildAuth(cfg config.Relay, log *slog.Logger) func(http.Handler) http.Handler {
	if cfg.JWTSigningKey != "" {
		validator := jwttoken.NewService(cfg.JWTSigningKey, "veil-relay", "veil-clients")
		return middleware.RequireAuth(validator, log)
	}
	if cfg.IngestKeyHash != "" {
		return middleware.RequireIngestKey(cfg.IngestKeyHash, log)
	}
	return nil
}
