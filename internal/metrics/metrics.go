package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics holds the storefront collectors on a private registry so tests
// can build as many instances as they need.
type Metrics struct {
	registry *prometheus.Registry

	CartAdds         prometheus.Counter
	OrdersPlaced     prometheus.Counter
	OrderRevenue     prometheus.Counter
	StatusUpdates    *prometheus.CounterVec
	EnhanceFailures  *prometheus.CounterVec
	Requests         *prometheus.CounterVec
	RequestLatencyMS *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CartAdds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_adds_total",
			Help:      "Successful add-to-cart operations.",
		}),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders created at checkout.",
		}),
		OrderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_revenue_total",
			Help:      "Sum of placed order totals.",
		}),
		StatusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_updates_total",
			Help:      "Order status changes by target status.",
		}, []string{"status"}),
		EnhanceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enhance_failures_total",
			Help:      "Text enhancement calls that fell back.",
		}, []string{"operation"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		RequestLatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.CartAdds,
		m.OrdersPlaced,
		m.OrderRevenue,
		m.StatusUpdates,
		m.EnhanceFailures,
		m.Requests,
		m.RequestLatencyMS,
	)
	return m
}

func (m *Metrics) CartAdded() {
	m.CartAdds.Inc()
}

func (m *Metrics) OrderPlaced(total float64) {
	m.OrdersPlaced.Inc()
	m.OrderRevenue.Add(total)
}

func (m *Metrics) StatusUpdated(status string) {
	m.StatusUpdates.WithLabelValues(status).Inc()
}

// EnhanceFailed satisfies enhance.FailureRecorder.
func (m *Metrics) EnhanceFailed(operation string) {
	m.EnhanceFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestLatencyMS.WithLabelValues(route).Observe(float64(elapsed.Milliseconds()))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
