package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "preptrack",
		Name:      "sessions_started_total",
		Help:      "Total number of interview sessions started",
	})

	SessionsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "preptrack",
		Name:      "sessions_submitted_total",
		Help:      "Total number of interview sessions submitted",
	}, []string{"trigger"}) // "user", "timeout", "sweep"

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "preptrack",
		Name:      "active_sessions",
		Help:      "Current number of in-progress interview sessions",
	})

	QuestionsImported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "preptrack",
		Name:      "questions_imported_total",
		Help:      "Total number of questions added through CSV import",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "preptrack",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "preptrack",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and latency per route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
