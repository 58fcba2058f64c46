package logger

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const metricsNamespace = "poker_board"

// Metrics tracks counters, gauges and timings in a private Prometheus
// registry. Each metric name becomes the "name" label of a shared vector.
// All operations are thread-safe.
type Metrics struct {
	registry *prometheus.Registry
	counters *prometheus.CounterVec
	gauges   *prometheus.GaugeVec
	timings  *prometheus.HistogramVec
}

var defaultMetrics atomic.Pointer[Metrics]

func init() {
	defaultMetrics.Store(NewMetrics())
}

// NewMetrics creates a tracker on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		counters: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Number of occurrences per named event",
		}, []string{"name"}),
		gauges: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "gauge",
			Help:      "Point-in-time values per name",
		}, []string{"name"}),
		timings: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "duration_seconds",
			Help:      "Operation durations per name",
			Buckets:   prometheus.DefBuckets,
		}, []string{"name"}),
	}
}

// Registry returns the registry holding every metric of m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncrCounter increments a counter by 1.
func (m *Metrics) IncrCounter(name string) {
	m.counters.WithLabelValues(name).Inc()
}

// SetGauge sets a gauge to the specified value, overwriting any previous value.
func (m *Metrics) SetGauge(name string, value float64) {
	m.gauges.WithLabelValues(name).Set(value)
}

// RecordTiming records a duration measurement.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.timings.WithLabelValues(name).Observe(duration.Seconds())
}

// GetSnapshot gathers the registry into a map containing:
//   - "counters": map of counter names to values
//   - "gauges": map of gauge names to values
//   - "timings": map of timing names to statistics (count, total, average)
func (m *Metrics) GetSnapshot() map[string]interface{} {
	counters := make(map[string]int64)
	gauges := make(map[string]float64)
	timings := make(map[string]map[string]interface{})

	families, err := m.registry.Gather()
	if err != nil {
		Warn("Gathering metrics failed", Fields{"error": err.Error()})
	}

	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			name := labelValue(metric, "name")
			switch fam.GetType() {
			case dto.MetricType_COUNTER:
				counters[name] = int64(metric.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				gauges[name] = metric.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				count := h.GetSampleCount()
				if count == 0 {
					continue
				}
				total := time.Duration(h.GetSampleSum() * float64(time.Second))
				timings[name] = map[string]interface{}{
					"count":   int(count),
					"total":   total.String(),
					"average": (total / time.Duration(count)).String(),
				}
			}
		}
	}

	return map[string]interface{}{
		"counters": counters,
		"gauges":   gauges,
		"timings":  timings,
	}
}

func labelValue(metric *dto.Metric, label string) string {
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == label {
			return lp.GetValue()
		}
	}
	return ""
}

// Package-level metrics functions using the default metrics tracker

// DefaultMetrics returns the package-level tracker.
func DefaultMetrics() *Metrics {
	return defaultMetrics.Load()
}

// SetDefaultMetrics replaces the package-level tracker.
func SetDefaultMetrics(m *Metrics) {
	if m != nil {
		defaultMetrics.Store(m)
	}
}

// IncrCounter increments a counter on the default metrics tracker.
func IncrCounter(name string) {
	DefaultMetrics().IncrCounter(name)
}

// SetGauge sets a gauge on the default metrics tracker.
func SetGauge(name string, value float64) {
	DefaultMetrics().SetGauge(name, value)
}

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, duration time.Duration) {
	DefaultMetrics().RecordTiming(name, duration)
}

// GetMetricsSnapshot returns a snapshot of all metrics from the default tracker.
func GetMetricsSnapshot() map[string]interface{} {
	return DefaultMetrics().GetSnapshot()
}
