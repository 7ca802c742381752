// Package metrics exposes Prometheus instruments for fan-out and the badge stream.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for announcement distribution.
type Metrics struct {
	FanoutReceipts  *prometheus.CounterVec
	FanoutDuration  prometheus.Histogram
	BadgeRefreshes  *prometheus.CounterVec
	BadgeConnection prometheus.Gauge
}

// New registers every instrument on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers on reg; tests pass a fresh prometheus.NewRegistry().
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FanoutReceipts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "unidad_announcement_fanout_receipts_total",
			Help: "Receipts handled by fan-out, by result",
		}, []string{"result"}), // result: "created", "skipped", "failed"

		FanoutDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "unidad_announcement_fanout_duration_seconds",
			Help:    "Duration of one fan-out over the resolved audience",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		BadgeRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "unidad_badge_refresh_total",
			Help: "Unread badge refreshes pushed to websocket clients, by result",
		}, []string{"result"}),

		BadgeConnection: factory.NewGauge(prometheus.GaugeOpts{
			Name: "unidad_badge_connections",
			Help: "Open websocket badge connections",
		}),
	}
}

// AddReceipts records n receipts with the given result.
func (m *Metrics) AddReceipts(result string, n int) {
	if m != nil && n > 0 {
		m.FanoutReceipts.WithLabelValues(result).Add(float64(n))
	}
}

// ObserveFanout records the duration of one fan-out.
func (m *Metrics) ObserveFanout(d time.Duration) {
	if m != nil {
		m.FanoutDuration.Observe(d.Seconds())
	}
}

// IncrementRefresh records one badge refresh outcome.
func (m *Metrics) IncrementRefresh(result string) {
	if m != nil {
		m.BadgeRefreshes.WithLabelValues(result).Inc()
	}
}

// ConnectionOpened tracks a new badge stream.
func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.BadgeConnection.Inc()
	}
}

// ConnectionClosed tracks a closed badge stream.
func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.BadgeConnection.Dec()
	}
}
