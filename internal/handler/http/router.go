package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/phonebook/internal/service"
	"github.com/utafrali/phonebook/pkg/health"
	"github.com/utafrali/phonebook/pkg/middleware"
)

const serviceName = "phonebook"

// RouterOptions carries the settings that shape the router but not the
// handlers themselves.
type RouterOptions struct {
	PprofCIDRs []string
	CORS       middleware.CORSConfig
}

// NewRouter creates a chi router with all phonebook routes registered.
func NewRouter(
	addressService *service.AddressService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RealIP)
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.CORS(opts.CORS))
	r.Use(middleware.Timeout(30 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeRouteError(w, http.StatusNotFound, "NotFound", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeRouteError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "method not allowed")
	})

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, opts.PprofCIDRs, logger)

	addressHandler := NewAddressHandler(addressService, logger)

	r.Route("/api/v1/address", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.NoStore)

		// Matches both /api/v1/address and /api/v1/address/.
		r.Post("/", addressHandler.Create)
		r.Get("/{phone_number}", addressHandler.Lookup)
		r.Put("/{phone_number}", addressHandler.Update)
		r.Delete("/{phone_number}", addressHandler.Delete)
	})

	return r
}
