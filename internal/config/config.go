package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/phonebook/pkg/config"
	"github.com/utafrali/phonebook/pkg/database"
	"github.com/utafrali/phonebook/pkg/middleware"
	"github.com/utafrali/phonebook/pkg/tracing"
)

// Config holds all configuration for the phonebook service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"debug"`

	// HTTP server
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"APP_PORT" envDefault:"8000"`

	// Redis
	RedisHost         string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB           int           `env:"REDIS_DB" envDefault:"0"`
	RedisDialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	RedisReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	RedisWriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`

	// Commands slower than this are logged at warn level. Zero disables it.
	SlowCommandThreshold time.Duration `env:"SLOW_COMMAND_THRESHOLD" envDefault:"100ms"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Debug endpoints
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load phonebook config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants. All violations are reported
// together.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid APP_PORT: %d", c.Port))
	}
	if c.RedisPort < 1 || c.RedisPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid REDIS_PORT: %d", c.RedisPort))
	}
	if c.RedisDB < 0 || c.RedisDB > 15 {
		errs = append(errs, fmt.Errorf("REDIS_DB must be between 0 and 15, got %d", c.RedisDB))
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %g", c.OTELSampleRate))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true"))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Redis returns the connection settings for the Redis client.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:         c.RedisHost,
		Port:         c.RedisPort,
		Password:     c.RedisPassword,
		DB:           c.RedisDB,
		DialTimeout:  c.RedisDialTimeout,
		ReadTimeout:  c.RedisReadTimeout,
		WriteTimeout: c.RedisWriteTimeout,
	}
}

// Tracing returns the OpenTelemetry settings for the given service.
func (c *Config) Tracing(serviceName string) tracing.Config {
	cfg := tracing.DefaultConfig(serviceName)
	cfg.Environment = c.Environment
	cfg.OTLPEndpoint = c.OTELEndpoint
	cfg.SampleRate = c.OTELSampleRate
	cfg.Enabled = c.OTELEnabled
	return cfg
}

// CORS returns the CORS middleware settings.
func (c *Config) CORS() middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = c.CORSAllowedOrigins
	cors.Environment = c.Environment
	return cors
}
