package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the metrics collectors.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics exposes application-level instruments. A nil *Metrics is valid
// and records nothing, so components can run without a registry in tests.
type Metrics struct {
	identifiersGenerated prometheus.Counter
	sequenceWraps        prometheus.Counter
	inspectionWrites     *prometheus.CounterVec
	searches             prometheus.Counter
	searchRows           prometheus.Histogram
	hydrationFailures    *prometheus.CounterVec
	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
}

// New builds the collectors and registers them with registerer
// (prometheus.DefaultRegisterer when nil).
func New(cfg Config, registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "breakinfo"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		identifiersGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "breakinfo_identifiers_generated_total",
			Help:        "Inspection identifiers minted.",
			ConstLabels: constLabels,
		}),
		sequenceWraps: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "breakinfo_sequence_wraps_total",
			Help:        "Times the inspection sequence counter wrapped from 999 to 1.",
			ConstLabels: constLabels,
		}),
		inspectionWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "breakinfo_inspection_writes_total",
			Help:        "Inspection writes by operation.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "breakinfo_inspection_searches_total",
			Help:        "Inspection searches executed.",
			ConstLabels: constLabels,
		}),
		searchRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "breakinfo_inspection_search_rows",
			Help:        "Rows returned per inspection search.",
			Buckets:     []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
			ConstLabels: constLabels,
		}),
		hydrationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "breakinfo_hydration_failures_total",
			Help:        "Rows that failed relational hydration, by query.",
			ConstLabels: constLabels,
		}, []string{"query"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "breakinfo_http_requests_total",
			Help:        "HTTP requests by method, route and status.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "breakinfo_http_request_duration_seconds",
			Help:        "HTTP request latency.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{
		m.identifiersGenerated,
		m.sequenceWraps,
		m.inspectionWrites,
		m.searches,
		m.searchRows,
		m.hydrationFailures,
		m.httpRequests,
		m.httpDuration,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) RecordIdentifier() {
	if m == nil {
		return
	}
	m.identifiersGenerated.Inc()
}

func (m *Metrics) RecordSequenceWrap() {
	if m == nil {
		return
	}
	m.sequenceWraps.Inc()
}

// RecordInspectionWrite counts a create or update.
func (m *Metrics) RecordInspectionWrite(operation string) {
	if m == nil {
		return
	}
	m.inspectionWrites.WithLabelValues(strings.TrimSpace(operation)).Inc()
}

func (m *Metrics) RecordSearch(rows int) {
	if m == nil {
		return
	}
	m.searches.Inc()
	m.searchRows.Observe(float64(rows))
}

func (m *Metrics) RecordHydrationFailure(query string) {
	if m == nil {
		return
	}
	m.hydrationFailures.WithLabelValues(strings.TrimSpace(query)).Inc()
}
