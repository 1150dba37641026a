package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK            = "ok"
	ResultInvalid       = "invalid_variant"
	ResultNotConfigured = "not_configured"
	ResultError         = "error"
)

// Metrics groups the storefront's counters. A nil *Metrics records nothing.
type Metrics struct {
	reg *prometheus.Registry

	quotes        *prometheus.CounterVec
	importRecords *prometheus.CounterVec
	catalogWrites *prometheus.CounterVec
	writeDuration prometheus.Histogram
	mirrorPushes  *prometheus.CounterVec
	catalogSize   prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ktmobile_quotes_total",
			Help: "Quotes computed by result.",
		}, []string{"result"}),
		importRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ktmobile_import_records_total",
			Help: "Models processed by price imports, by outcome.",
		}, []string{"outcome"}),
		catalogWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ktmobile_catalog_writes_total",
			Help: "Catalog read-modify-write cycles by reason and result.",
		}, []string{"reason", "result"}),
		writeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ktmobile_catalog_write_duration_seconds",
			Help:    "Time spent holding the catalog writer lock.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		mirrorPushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ktmobile_mirror_push_total",
			Help: "Cloud mirror push attempts by result.",
		}, []string{"result"}),
		catalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ktmobile_catalog_records",
			Help: "Phone records in the catalog after the last write.",
		}),
	}
	reg.MustRegister(
		m.quotes, m.importRecords, m.catalogWrites, m.writeDuration, m.mirrorPushes, m.catalogSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Quote(result string) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(result).Inc()
}

func (m *Metrics) ImportRecord(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importRecords.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) CatalogWrite(reason, result string, held time.Duration, size int) {
	if m == nil {
		return
	}
	m.catalogWrites.WithLabelValues(reason, result).Inc()
	m.writeDuration.Observe(held.Seconds())
	if result == ResultOK {
		m.catalogSize.Set(float64(size))
	}
}

func (m *Metrics) MirrorPush(result string) {
	if m == nil {
		return
	}
	m.mirrorPushes.WithLabelValues(result).Inc()
}

// Counters below are exposed for tests.

func (m *Metrics) QuotesCounter() *prometheus.CounterVec        { return m.quotes }
func (m *Metrics) ImportCounter() *prometheus.CounterVec        { return m.importRecords }
func (m *Metrics) CatalogWritesCounter() *prometheus.CounterVec { return m.catalogWrites }
func (m *Metrics) MirrorCounter() *prometheus.CounterVec        { return m.mirrorPushes }
