package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. MEDICONNECT_SERVER_PORT.
const EnvPrefix = "MEDICONNECT"

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Store        StoreConfig        `mapstructure:"store"`
	Calendar     CalendarConfig     `mapstructure:"calendar"`
	Portal       PortalConfig       `mapstructure:"portal"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Preference   PreferenceConfig   `mapstructure:"preference"`
	Outbox       OutboxConfig       `mapstructure:"outbox"`
	Completion   CompletionConfig   `mapstructure:"completion"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit" split_words:"true"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	SMTP         SMTPConfig         `mapstructure:"smtp"`
	Notification NotificationConfig `mapstructure:"notification"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" split_words:"true"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" split_words:"true"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" split_words:"true"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type StoreConfig struct {
	// SimulateLatency applies the demo backend delays to every call.
	SimulateLatency bool   `mapstructure:"simulate_latency" split_words:"true"`
	Timezone        string `mapstructure:"timezone"`
}

type CalendarConfig struct {
	SlotPolicy        string        `mapstructure:"slot_policy" split_words:"true"`
	UseClinicSchedule bool          `mapstructure:"use_clinic_schedule" split_words:"true"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl" split_words:"true"`
}

type PortalConfig struct {
	DefaultDoctor      string `mapstructure:"default_doctor" split_words:"true"`
	DefaultPatientID   int    `mapstructure:"default_patient_id" split_words:"true"`
	DefaultPatientName string `mapstructure:"default_patient_name" split_words:"true"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries" split_words:"true"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" split_words:"true"`
	PoolSize     int           `mapstructure:"pool_size" split_words:"true"`
	MinIdleConns int           `mapstructure:"min_idle_conns" split_words:"true"`
}

type PreferenceConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type OutboxConfig struct {
	BatchSize       int           `mapstructure:"batch_size" split_words:"true"`
	PollInterval    time.Duration `mapstructure:"poll_interval" split_words:"true"`
	RetryAttempts   int           `mapstructure:"retry_attempts" split_words:"true"`
	RetryDelay      time.Duration `mapstructure:"retry_delay" split_words:"true"`
	Retention       time.Duration `mapstructure:"retention"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" split_words:"true"`
}

type CompletionConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" split_words:"true"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type NotificationConfig struct {
	// Enabled runs the email consumer inside the API process.
	Enabled     bool   `mapstructure:"enabled"`
	ClinicEmail string `mapstructure:"clinic_email" split_words:"true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("store.simulate_latency", true)
	v.SetDefault("store.timezone", "Local")

	v.SetDefault("calendar.slot_policy", "exact")
	v.SetDefault("calendar.use_clinic_schedule", false)
	v.SetDefault("calendar.cache_ttl", 30*time.Second)

	v.SetDefault("portal.default_doctor", "Dr. Sarah Johnson")
	v.SetDefault("portal.default_patient_id", 1)
	v.SetDefault("portal.default_patient_name", "John Doe")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 500*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("preference.ttl", 30*24*time.Hour)

	v.SetDefault("outbox.batch_size", 100)
	v.SetDefault("outbox.poll_interval", time.Second)
	v.SetDefault("outbox.retry_attempts", 3)
	v.SetDefault("outbox.retry_delay", 5*time.Second)
	v.SetDefault("outbox.retention", 24*time.Hour)
	v.SetDefault("outbox.cleanup_interval", time.Hour)

	v.SetDefault("completion.enabled", false)
	v.SetDefault("completion.interval", 5*time.Minute)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 50.0)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("metrics.namespace", "mediconnect")

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "MediConnect <no-reply@mediconnect.local>")

	v.SetDefault("notification.enabled", false)
}

// LoadConfig reads config.yaml from the usual paths, then .env, then
// MEDICONNECT_* variables. A missing config file is not an error.
func LoadConfig(paths ...string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "/app/config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	switch strings.ToLower(c.Calendar.SlotPolicy) {
	case "exact", "enclosing":
	default:
		return fmt.Errorf("calendar.slot_policy must be exact or enclosing, got %q", c.Calendar.SlotPolicy)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("store.timezone: %w", err)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Store.Timezone)
}
