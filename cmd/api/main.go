package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/eventpass/internal/cache"
	"github.com/geocoder89/eventpass/internal/config"
	"github.com/geocoder89/eventpass/internal/db"
	httpx "github.com/geocoder89/eventpass/internal/http"
	"github.com/geocoder89/eventpass/internal/notifications"
	"github.com/geocoder89/eventpass/internal/observability"
	"github.com/geocoder89/eventpass/internal/ticket"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// Tracing is on only when an OTLP endpoint is configured.
	if cfg.OTLPEndpoint != "" {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		shutdownTracer, err := observability.InitTracer(ctx, "eventpass-api", cfg.OTLPEndpoint)
		cancel()

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(registry)

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	{
		ctx, cancel := config.WithTimeout(5 * time.Second)
		err := db.EnsureAdminUser(ctx, pool, cfg)
		cancel()

		if err != nil {
			log.Error("admin seed failed", "err", err)
			os.Exit(1)
		}
	}

	// Redis is optional; an empty addr yields a nil-safe cache that is a
	// pass-through to Postgres.
	listCache := cache.NewEventsCache(cfg.RedisAddr, 30*time.Second)
	defer listCache.Close()

	tickets, err := ticket.NewGenerator(cfg.TicketsDir)

	if err != nil {
		log.Error("tickets dir init failed", "err", err, "dir", cfg.TicketsDir)
		os.Exit(1)
	}

	var notifier notifications.Notifier

	if cfg.EmailDisabled {
		notifier = notifications.NewLogNotifier(log)
		log.Info("email delivery disabled, using log notifier")
	} else {
		smtp := notifications.NewSMTPNotifier(notifications.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
		notifier = notifications.NewProtectedNotifier(smtp, notifications.ProtectedNotifierConfig{
			Timeout:          10 * time.Second,
			FailureThreshold: 5,
			Cooldown:         30 * time.Second,
			HalfOpenMaxCalls: 1,
		})
	}

	router := httpx.NewRouter(cfg, httpx.Deps{
		Log:      log,
		Pool:     pool,
		Prom:     prom,
		Registry: registry,
		Cache:    listCache,
		Tickets:  tickets,
		Notifier: notifier,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
