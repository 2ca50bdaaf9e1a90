package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"memorizer/internal/core"
)

// metrics is registered on a per-server registry so several servers can coexist in tests.
type metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	entriesCreated *prometheus.CounterVec
	entriesDeleted *prometheus.CounterVec
	payouts        prometheus.Counter
	payoutAmount   prometheus.Counter
	suspicious     *prometheus.CounterVec
	rateLimited    prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "memorizer_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "memorizer_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		entriesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "memorizer_entries_created_total",
			Help: "Ledger entries created, by kind.",
		}, []string{"kind"}),
		entriesDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "memorizer_entries_deleted_total",
			Help: "Ledger entries deleted, by kind.",
		}, []string{"kind"}),
		payouts: f.NewCounter(prometheus.CounterOpts{
			Name: "memorizer_payouts_total",
			Help: "Payouts performed.",
		}),
		payoutAmount: f.NewCounter(prometheus.CounterOpts{
			Name: "memorizer_payout_rubles_total",
			Help: "Rubles settled by payouts.",
		}),
		suspicious: f.NewCounterVec(prometheus.CounterOpts{
			Name: "memorizer_suspicious_requests_total",
			Help: "Requests matching a probe pattern, by reason.",
		}, []string{"reason"}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "memorizer_rate_limited_total",
			Help: "Mutations rejected by the rate limiter.",
		}),
	}
}

func (m *metrics) entryCreated(kind core.EntryKind) {
	m.entriesCreated.WithLabelValues(string(kind)).Inc()
}

func (m *metrics) entryDeleted(kind core.EntryKind) {
	m.entriesDeleted.WithLabelValues(string(kind)).Inc()
}

func (m *metrics) payout(amount core.Rubles) {
	m.payouts.Inc()
	m.payoutAmount.Add(float64(amount))
}

// instrument records a request under its chi route pattern, never the raw path.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
