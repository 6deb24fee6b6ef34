package metrics

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every simulator metric.
const Namespace = "sensorsim"

// Write outcomes used as the "result" label.
const (
	resultOK    = "ok"
	resultError = "error"
)

// writeBuckets spans a local write (sub-millisecond) up to the store timeout.
var writeBuckets = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// EmissionSource is read at scrape time. *emitter.Emitter satisfies it.
type EmissionSource interface {
	Count() uint64
	Failures() uint64
	LastSuccess() time.Time
}

// Metrics holds the simulator's Prometheus collectors.
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
type Metrics struct {
	registry      *prometheus.Registry
	writeDuration *prometheus.HistogramVec
	writesTotal   *prometheus.CounterVec
}

// New creates a registry with Go runtime, process and build info collectors
// plus the sink write collectors.
func New(version string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		writeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "sink_write_duration_seconds",
			Help:      "Duration of individual sink writes.",
			Buckets:   writeBuckets,
		}, []string{"sink"}),
		writesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sink_writes_total",
			Help:      "Sink writes by sink and result.",
		}, []string{"sink", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   Namespace,
			Name:        "build_info",
			Help:        "Always 1; the version label carries the build version.",
			ConstLabels: prometheus.Labels{"version": version},
		}, func() float64 { return 1 }),
		m.writeDuration,
		m.writesTotal,
	)

	return m
}

// RegisterEmission exposes the emitter's counters.
//
// Returns:
//   - error: If emission metrics were already registered
func (m *Metrics) RegisterEmission(src EmissionSource) error {
	cs := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "readings_emitted_total",
			Help:      "Readings confirmed by the primary store.",
		}, func() float64 { return float64(src.Count()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "readings_failed_total",
			Help:      "Readings the primary store failed to persist.",
		}, func() float64 { return float64(src.Failures()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last confirmed reading, 0 if none.",
		}, func() float64 {
			last := src.LastSuccess()
			if last.IsZero() {
				return 0
			}
			return float64(last.UnixNano()) / 1e9
		}),
	}

	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return fmt.Errorf("registering emission metrics: %w", err)
		}
	}
	return nil
}

// RegisterDatabase exposes connection pool statistics of the journal database.
func (m *Metrics) RegisterDatabase(db *sql.DB, name string) error {
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, name)); err != nil {
		return fmt.Errorf("registering database metrics: %w", err)
	}
	return nil
}

// ObserveWrite records one sink write.
func (m *Metrics) ObserveWrite(sink string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.writeDuration.WithLabelValues(sink).Observe(d.Seconds())
	m.writesTotal.WithLabelValues(sink, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
