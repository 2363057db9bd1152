package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists origins such as "https://crm.example.com".
	// Matching ignores case and a trailing slash. "*" allows any origin.
	AllowedOrigins []string

	// AllowedMethods defaults to the methods the address API serves.
	AllowedMethods []string

	// AllowedHeaders defaults to Accept, Content-Type, X-Correlation-ID and
	// traceparent.
	AllowedHeaders []string

	// ExposedHeaders is the list of response headers the browser may read.
	ExposedHeaders []string

	// MaxAge is how long (in seconds) preflight results can be cached.
	// Defaults to 3600 if 0.
	MaxAge int

	// Environment "development" allows any origin regardless of the list.
	Environment string
}

// DefaultCORSConfig returns a permissive configuration for development.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		ExposedHeaders: []string{CorrelationIDHeader, "traceparent"},
		MaxAge:         3600,
		Environment:    "development",
	}
}

var (
	defaultCORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	defaultCORSHeaders = []string{"Accept", "Content-Type", CorrelationIDHeader, "traceparent"}
)

// CORS returns middleware implementing Cross-Origin Resource Sharing for the
// configured origins. Preflight requests (OPTIONS with an
// Access-Control-Request-Method header) are answered with 204 and never reach
// the router; any other request passes through with the origin headers set.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 3600
	}

	anyOrigin := cfg.Environment == "development"
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			anyOrigin = true
			continue
		}
		origins[normalizeOrigin(o)] = struct{}{}
	}

	allowMethods := strings.Join(methods, ", ")
	allowHeaders := strings.Join(headers, ", ")
	exposeHeaders := strings.Join(cfg.ExposedHeaders, ", ")
	maxAgeValue := strconv.Itoa(maxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			h := w.Header()
			allowed := false
			switch {
			case origin == "":
			case anyOrigin:
				h.Set("Access-Control-Allow-Origin", "*")
				allowed = true
			default:
				h.Add("Vary", "Origin")
				if _, ok := origins[normalizeOrigin(origin)]; ok {
					h.Set("Access-Control-Allow-Origin", origin)
					allowed = true
				}
			}

			if !preflight {
				if allowed && exposeHeaders != "" {
					h.Set("Access-Control-Expose-Headers", exposeHeaders)
				}
				next.ServeHTTP(w, r)
				return
			}

			if allowed {
				h.Set("Access-Control-Allow-Methods", allowMethods)
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				h.Set("Access-Control-Max-Age", maxAgeValue)
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func normalizeOrigin(o string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(o)), "/")
}
