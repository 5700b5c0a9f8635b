// internal/middleware/observe.go
//
// Request logging and Prometheus instrumentation.
//
// Context
// -------
// Both wrappers sit inside the chi router so chi.RouteContext is populated
// and metrics are labelled with the route *pattern* (`/consultation`), never
// the raw path, which keeps label cardinality bounded.  Unmatched requests
// are labelled "unmatched".
//
// Notes
// -----
// • Request IDs come from chi's middleware.RequestID, which must run first.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/herai/automation-site/internal/metrics"
)

// Metrics records http_requests_total and http_request_duration_seconds.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// RequestLog writes one structured line per request through zap.S().
// Health and metrics probes are logged at debug level.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"took", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		}

		log := zap.S()
		switch {
		case r.URL.Path == "/healthz" || r.URL.Path == "/metrics":
			log.Debugw("http request", fields...)
		case status >= 500:
			log.Errorw("http request", fields...)
		default:
			log.Infow("http request", fields...)
		}
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
