package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout bounds a whole readiness probe.
const DefaultTimeout = 3 * time.Second

// Checker is a function that checks the health of a dependency.
type Checker func(ctx context.Context) error

// Status represents the health status of a component.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Response is the JSON response returned by the health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the result of a single health check.
type CheckResult struct {
	Status   Status `json:"status"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// Handler provides HTTP health check endpoints.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	timeout  time.Duration
}

// NewHandler creates a new health check handler using DefaultTimeout.
func NewHandler() *Handler {
	return &Handler{
		checkers: make(map[string]Checker),
		timeout:  DefaultTimeout,
	}
}

// WithTimeout overrides the readiness probe timeout.
func (h *Handler) WithTimeout(d time.Duration) *Handler {
	h.timeout = d
	return h
}

// Register adds a named health checker.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// LivenessHandler returns a simple liveness check (always 200 if the process is running).
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler runs all registered checks concurrently and returns 200
// when every dependency is up, 503 otherwise.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		checks := h.runChecks(ctx)

		overall := StatusUp
		for _, c := range checks {
			if c.Status == StatusDown {
				overall = StatusDown
				break
			}
		}

		status := http.StatusOK
		if overall == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, Response{
			Status:    overall,
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
	}
}

func (h *Handler) runChecks(ctx context.Context) map[string]CheckResult {
	h.mu.RLock()
	checkers := make(map[string]Checker, len(h.checkers))
	for k, v := range h.checkers {
		checkers[k] = v
	}
	h.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]CheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			start := time.Now()
			res := CheckResult{Status: StatusUp}
			if err := checker(ctx); err != nil {
				res = CheckResult{Status: StatusDown, Error: err.Error()}
			}
			res.Duration = time.Since(start).String()

			mu.Lock()
			results[name] = res
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	return results
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
