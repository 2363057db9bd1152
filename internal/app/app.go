package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/phonebook/internal/config"
	"github.com/utafrali/phonebook/internal/event"
	handler "github.com/utafrali/phonebook/internal/handler/http"
	redisrepo "github.com/utafrali/phonebook/internal/repository/redis"
	"github.com/utafrali/phonebook/internal/service"
	"github.com/utafrali/phonebook/pkg/database"
	"github.com/utafrali/phonebook/pkg/health"
	pkgkafka "github.com/utafrali/phonebook/pkg/kafka"
	"github.com/utafrali/phonebook/pkg/tracing"
)

const serviceName = "phonebook"

// App wires together all dependencies and runs the phonebook service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer // nil when Kafka is disabled
	httpServer     *http.Server
	tracerShutdown func(context.Context) error

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	return newApp(cfg, logger, prometheus.DefaultRegisterer)
}

func newApp(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing(serviceName))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis client.
	redisCfg := cfg.Redis()
	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		_ = tracerShutdown(ctx)
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", redisCfg.Addr()),
		slog.Int("db", redisCfg.DB),
	)

	if err := database.RegisterPoolMetrics(reg, rdb, serviceName); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			_ = rdb.Close()
			_ = tracerShutdown(ctx)
			return nil, fmt.Errorf("register redis pool metrics: %w", err)
		}
		logger.Warn("redis pool metrics already registered")
	}

	// Configure slow command logging.
	if cfg.SlowCommandThreshold > 0 {
		database.SetSlowCommandLogging(cfg.SlowCommandThreshold, logger)
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// Initialize Kafka producer, or drop events when disabled.
	var (
		producer  *pkgkafka.Producer
		publisher event.Publisher = event.NopPublisher{}
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(producer, logger)
		healthHandler.Register("kafka", producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, address events will not be published")
	}

	// Build the dependency graph.
	repo := redisrepo.NewAddressRepository(rdb, logger)
	addressService := service.NewAddressService(repo, publisher, logger)

	// HTTP router.
	router := handler.NewRouter(addressService, healthHandler, logger, handler.RouterOptions{
		PprofCIDRs: cfg.PprofAllowedCIDRs,
		CORS:       cfg.CORS(),
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		_ = a.Shutdown()
		return fmt.Errorf("listen on %s: %w", a.httpServer.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", ln.Addr().String()),
		)
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: HTTP server, tracer,
// Kafka producer, Redis client. Only the first call does any work.
func (a *App) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.shutdownErr = a.shutdown()
	})
	return a.shutdownErr
}

func (a *App) shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Drain in-flight HTTP requests.
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Flush spans after the drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
