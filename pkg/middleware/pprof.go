package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/phonebook/pkg/httputil"
)

// RegisterPprof mounts the pprof endpoints under /debug/pprof behind an IP
// allowlist. With no CIDRs configured nothing is mounted.
func RegisterPprof(r chi.Router, allowedCIDRs []string, logger *slog.Logger) {
	if len(allowedCIDRs) == 0 {
		logger.Info("pprof endpoints disabled")
		return
	}

	r.Route("/debug/pprof", func(r chi.Router) {
		r.Use(IPAllowlist(allowedCIDRs, logger))
		r.HandleFunc("/cmdline", pprof.Cmdline)
		r.HandleFunc("/profile", pprof.Profile)
		r.HandleFunc("/symbol", pprof.Symbol)
		r.HandleFunc("/trace", pprof.Trace)
		// Index also serves named profiles: heap, goroutine, allocs, block, mutex.
		r.HandleFunc("/*", pprof.Index)
	})
}

// IPAllowlist returns middleware that only lets through requests whose remote
// IP falls in one of cidrs. Invalid CIDRs are logged and skipped; an empty
// list denies everything.
func IPAllowlist(cidrs []string, logger *slog.Logger) func(http.Handler) http.Handler {
	nets := parseCIDRs(cidrs, logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := remoteHost(r)
			if !containsIP(nets, net.ParseIP(host)) {
				logger.Warn("access denied by IP allowlist",
					slog.String("ip", host),
					slog.String("path", r.URL.Path),
				)
				httputil.WriteFailure(w, http.StatusForbidden, httputil.ErrorResult{
					ErrorType:    "Forbidden",
					ErrorMessage: "access restricted by IP allowlist",
					ErrorData:    map[string]any{"ip": host},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func parseCIDRs(cidrs []string, logger *slog.Logger) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			logger.Warn("invalid allowlist CIDR, skipping",
				slog.String("cidr", cidr),
				slog.String("error", err.Error()),
			)
			continue
		}
		nets = append(nets, ipNet)
	}
	return nets
}

// remoteHost strips the port from RemoteAddr. chi's RealIP middleware may
// already have replaced it with a bare IP.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func containsIP(nets []*net.IPNet, ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
