package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters the intake service and the dashboard feed
// report. Register against a dedicated registry in tests.
type Metrics struct {
	OrdersCreated    prometheus.Counter
	ChangesPublished *prometheus.CounterVec
	ChangesApplied   *prometheus.CounterVec
	ChangesDropped   prometheus.Counter
	FeedRefreshes    *prometheus.CounterVec
	Requests         *prometheus.CounterVec
	LatencyMS        *prometheus.HistogramVec
}

func New(service string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pizzeria",
			Subsystem: service,
			Name:      "orders_created_total",
			Help:      "Total number of orders created.",
		}),
		ChangesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pizzeria",
			Subsystem: service,
			Name:      "order_changes_published_total",
			Help:      "Change events published to the change topic.",
		}, []string{"type"}),
		ChangesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pizzeria",
			Subsystem: service,
			Name:      "order_changes_applied_total",
			Help:      "Change events applied to the dashboard mirror.",
		}, []string{"type"}),
		ChangesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pizzeria",
			Subsystem: service,
			Name:      "order_changes_dropped_total",
			Help:      "Malformed change events dropped.",
		}),
		FeedRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pizzeria",
			Subsystem: service,
			Name:      "feed_refreshes_total",
			Help:      "Full mirror refreshes by outcome.",
		}, []string{"outcome"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pizzeria",
			Subsystem: service,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pizzeria",
			Subsystem: service,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
	}

	reg.MustRegister(
		m.OrdersCreated,
		m.ChangesPublished,
		m.ChangesApplied,
		m.ChangesDropped,
		m.FeedRefreshes,
		m.Requests,
		m.LatencyMS,
	)
	return m
}

// Handler serves the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
