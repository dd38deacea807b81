// Package app wires the portal together from a Config.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/apper-apps/mediconnect-code/internal/calendar"
	"github.com/apper-apps/mediconnect-code/internal/config"
	"github.com/apper-apps/mediconnect-code/internal/email"
	appointmentHandler "github.com/apper-apps/mediconnect-code/internal/handler/appointment"
	calendarHandler "github.com/apper-apps/mediconnect-code/internal/handler/calendar"
	dashboardHandler "github.com/apper-apps/mediconnect-code/internal/handler/dashboard"
	fileHandler "github.com/apper-apps/mediconnect-code/internal/handler/file"
	"github.com/apper-apps/mediconnect-code/internal/handler/health"
	patientHandler "github.com/apper-apps/mediconnect-code/internal/handler/patient"
	prescriptionHandler "github.com/apper-apps/mediconnect-code/internal/handler/prescription"
	profileHandler "github.com/apper-apps/mediconnect-code/internal/handler/profile"
	roleHandler "github.com/apper-apps/mediconnect-code/internal/handler/role"
	scheduleHandler "github.com/apper-apps/mediconnect-code/internal/handler/schedule"
	"github.com/apper-apps/mediconnect-code/internal/middleware"
	"github.com/apper-apps/mediconnect-code/internal/notification"
	"github.com/apper-apps/mediconnect-code/internal/preference"
	"github.com/apper-apps/mediconnect-code/internal/repository"
	"github.com/apper-apps/mediconnect-code/internal/repository/memory"
	"github.com/apper-apps/mediconnect-code/internal/router"
	appointmentService "github.com/apper-apps/mediconnect-code/internal/service/appointment"
	calendarService "github.com/apper-apps/mediconnect-code/internal/service/calendar"
	dashboardService "github.com/apper-apps/mediconnect-code/internal/service/dashboard"
	eventService "github.com/apper-apps/mediconnect-code/internal/service/event"
	fileService "github.com/apper-apps/mediconnect-code/internal/service/file"
	patientService "github.com/apper-apps/mediconnect-code/internal/service/patient"
	prescriptionService "github.com/apper-apps/mediconnect-code/internal/service/prescription"
	profileService "github.com/apper-apps/mediconnect-code/internal/service/profile"
	scheduleService "github.com/apper-apps/mediconnect-code/internal/service/schedule"
	"github.com/apper-apps/mediconnect-code/internal/store"
	"github.com/apper-apps/mediconnect-code/internal/worker"
	"github.com/apper-apps/mediconnect-code/pkg/logger"
	"github.com/apper-apps/mediconnect-code/pkg/messaging"
	"github.com/apper-apps/mediconnect-code/pkg/messaging/redis"
	"github.com/apper-apps/mediconnect-code/pkg/metrics"
	"github.com/apper-apps/mediconnect-code/pkg/validator"
	pkgworker "github.com/apper-apps/mediconnect-code/pkg/worker"
)

type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Store    *store.Store
	Outbox   repository.OutboxRepository
	Broker   messaging.Broker
	Redis    *goredis.Client
	Email    email.Service

	Appointments   *appointmentService.Service
	Calendar       *calendarService.Service
	CalendarEngine *calendar.Engine
	Router         *router.Router
}

// New builds every component. Redis is used only when configured; without
// it events go to an in-process broker and role preferences to memory.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := validator.RegisterGin(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: log, Registry: prometheus.NewRegistry()}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.NewMetrics(cfg.Metrics.Namespace, a.Registry)

	seed, err := store.LoadSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to load seed data: %w", err)
	}
	opts := store.Options{Metrics: a.Metrics}
	if cfg.Store.SimulateLatency {
		opts.Latency = store.DefaultLatency()
	}
	a.Store = store.New(seed, opts)

	var prefs preference.Store = preference.NewMemoryStore(cfg.Preference.TTL)
	if cfg.Redis.URL != "" {
		a.Redis, err = redis.NewClient(ctx, redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.Broker = redis.NewRedisBroker(a.Redis, log.ZL)
		prefs = preference.NewRedisStore(a.Redis, cfg.Preference.TTL)
	} else {
		a.Broker = messaging.NewLocalBroker()
	}

	if cfg.SMTP.Host != "" {
		a.Email = email.NewSMTPService(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		a.Email = email.NewLogService()
	}

	a.Outbox = memory.NewOutboxRepository()
	events := eventService.NewEventService(a.Outbox)

	a.CalendarEngine = calendar.New(loc, calendar.SlotPolicy(strings.ToLower(cfg.Calendar.SlotPolicy)))
	a.Calendar = calendarService.NewService(a.Store.Appointments, a.Store.Schedule, a.CalendarEngine, calendarService.Config{
		UseClinicSchedule: cfg.Calendar.UseClinicSchedule,
		CacheTTL:          cfg.Calendar.CacheTTL,
	}, a.Metrics)
	a.Appointments = appointmentService.NewService(a.Store.Appointments, events, a.Calendar)

	var scheduleInvalidator scheduleService.Invalidator
	if cfg.Calendar.UseClinicSchedule {
		scheduleInvalidator = a.Calendar
	}

	resolver := preference.NewResolver(prefs)
	handlers := []router.Handler{
		roleHandler.NewHandler(resolver),
		appointmentHandler.NewHandler(a.Appointments),
		calendarHandler.NewHandler(a.Calendar),
		prescriptionHandler.NewHandler(prescriptionService.NewService(a.Store.Prescriptions, cfg.Portal.DefaultDoctor)),
		patientHandler.NewHandler(patientService.NewService(a.Store.Patients, a.Store.Appointments)),
		fileHandler.NewHandler(fileService.NewService(a.Store.Files, fileService.Owner{
			ID:   cfg.Portal.DefaultPatientID,
			Name: cfg.Portal.DefaultPatientName,
		})),
		scheduleHandler.NewHandler(scheduleService.NewService(a.Store.Schedule, scheduleInvalidator)),
		dashboardHandler.NewHandler(dashboardService.NewService(a.Store.Appointments, a.Store.Prescriptions, a.CalendarEngine)),
		profileHandler.NewHandler(profileService.NewService(a.Store.Profiles)),
	}

	checks := map[string]health.Checker{}
	if a.Redis != nil {
		client := a.Redis
		checks["redis"] = func() error { return client.Ping(context.Background()).Err() }
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		cors.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	routerCfg := router.RouterConfig{
		Mode:          cfg.Server.Mode,
		Timeout:       cfg.Server.RequestTimeout,
		CORSConfig:    cors,
		MetricsPrefix: cfg.Metrics.Namespace + "_http",
		Registerer:    a.Registry,
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerCfg.RateBurst = cfg.RateLimit.Burst
	}

	a.Router = router.NewRouter(resolver, health.NewHandler(a.Registry, checks), handlers, routerCfg)
	a.Router.Setup()
	return a, nil
}

func (a *App) Handler() http.Handler { return a.Router.Engine() }

func (a *App) Engine() *gin.Engine { return a.Router.Engine() }

// StartBackground launches the outbox processor, the outbox cleanup, the
// optional completion job and the optional in-process notifier. They stop
// when ctx is done.
func (a *App) StartBackground(ctx context.Context) error {
	cfg := a.Config

	processor, err := pkgworker.NewOutboxProcessor(a.Outbox, a.Broker, pkgworker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, a.Logger, a.Metrics)
	if err != nil {
		return fmt.Errorf("invalid outbox config: %w", err)
	}
	go processor.Start(ctx)

	if cfg.Outbox.CleanupInterval > 0 {
		go worker.NewOutboxCleanupWorker(a.Outbox, cfg.Outbox.Retention, cfg.Outbox.CleanupInterval).Start(ctx)
	}

	if cfg.Completion.Enabled {
		go worker.NewCompletionJob(a.Appointments, cfg.Completion.Interval).Start(ctx)
	}

	if cfg.Notification.Enabled {
		n := a.Notifier()
		go func() {
			if err := n.Run(ctx, a.Broker); err != nil {
				a.Logger.Error(err, "Notifier stopped")
			}
		}()
	}
	return nil
}

// Notifier builds the email consumer over this app's patients.
func (a *App) Notifier() *notification.Notifier {
	return notification.NewNotifier(a.Email, a.Store.Patients, notification.Config{
		ClinicEmail: a.Config.Notification.ClinicEmail,
	}, a.Logger)
}

// Close releases the broker. The redis broker owns the redis client.
func (a *App) Close() error {
	if a.Broker == nil {
		return nil
	}
	return a.Broker.Close()
}
