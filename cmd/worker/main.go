package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/apper-apps/mediconnect-code/internal/config"
	"github.com/apper-apps/mediconnect-code/internal/email"
	"github.com/apper-apps/mediconnect-code/internal/notification"
	"github.com/apper-apps/mediconnect-code/internal/store"
	"github.com/apper-apps/mediconnect-code/pkg/logger"
	"github.com/apper-apps/mediconnect-code/pkg/messaging/redis"
	"github.com/apper-apps/mediconnect-code/pkg/metrics"
)

func setupHealthCheck(logger *logger.Logger, client *goredis.Client, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := client.Ping(r.Context()).Err(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/health/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: ":8081", Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ZL.Error().Err(err).Msg("Health check server failed")
			os.Exit(1)
		}
	}()
	return srv
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger := logger.Setup(cfg.Log.Level, cfg.Log.JSON)

	// Events only reach a separate process through redis.
	if cfg.Redis.URL == "" {
		logger.ZL.Fatal().Msg("redis.url is required to run the notification worker")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := redis.NewClient(ctx, redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		logger.ZL.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	broker := redis.NewRedisBroker(client, logger.ZL)
	defer broker.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(cfg.Metrics.Namespace, reg)

	seed, err := store.LoadSeed()
	if err != nil {
		logger.ZL.Fatal().Err(err).Msg("Failed to load seed data")
	}
	patients := store.New(seed, store.Options{Metrics: m}).Patients

	var emailSvc email.Service
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewSMTPService(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		emailSvc = email.NewLogService()
	}

	notifier := notification.NewNotifier(emailSvc, patients, notification.Config{
		ClinicEmail: cfg.Notification.ClinicEmail,
	}, logger)

	health := setupHealthCheck(logger, client, reg)
	defer health.Close()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.ZL.Info().Msg("Shutting down...")
		cancel()
	}()

	logger.ZL.Info().Msg("Notification worker started")
	if err := notifier.Run(ctx, broker); err != nil {
		logger.ZL.Fatal().Err(err).Msg("Notification worker failed")
	}
}
