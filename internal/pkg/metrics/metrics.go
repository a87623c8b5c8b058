// Package metrics exposes Prometheus instruments for the matching, demand and
// recommendation paths.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Demand refresh triggers.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
	TriggerCLI       = "cli"
)

// Manager owns a private registry so tests and multiple app instances never
// collide on the default one.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	matchRequests       prometheus.Counter
	matchJobsScored     prometheus.Histogram
	matchScores         prometheus.Histogram
	recommendRequests   *prometheus.CounterVec
	recommendResults    prometheus.Histogram
	demandRefreshes     *prometheus.CounterVec
	demandRefreshErrors prometheus.Counter
	demandRefreshTime   prometheus.Histogram
	wsClients           prometheus.Gauge
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

type Option func(*Manager)

func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

func WithHistogramBuckets(b []float64) Option {
	return func(m *Manager) {
		if len(b) > 0 {
			m.buckets = b
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "skilllink",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m.init()
	return m
}

func (m *Manager) init() {
	auto := promauto.With(m.registry)

	m.matchRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "matching",
		Name:      "requests_total",
		Help:      "Matched-jobs requests served.",
	})
	m.matchJobsScored = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "matching",
		Name:      "jobs_scored",
		Help:      "Candidate jobs scored per request.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
	m.matchScores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "matching",
		Name:      "score",
		Help:      "Distribution of match scores.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})
	m.recommendRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "recommendation",
		Name:      "requests_total",
		Help:      "Recommendation requests by cache outcome.",
	}, []string{"cache"})
	m.recommendResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "recommendation",
		Name:      "results",
		Help:      "Recommendations returned per request.",
		Buckets:   prometheus.LinearBuckets(0, 5, 8),
	})
	m.demandRefreshes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "demand",
		Name:      "refreshes_total",
		Help:      "Skill demand recomputations by trigger.",
	}, []string{"trigger"})
	m.demandRefreshErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "demand",
		Name:      "refresh_errors_total",
		Help:      "Failed skill demand recomputations.",
	})
	m.demandRefreshTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "demand",
		Name:      "refresh_duration_seconds",
		Help:      "Duration of a full demand refresh run.",
		Buckets:   m.buckets,
	})
	m.wsClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ws",
		Name:      "clients",
		Help:      "Connected demand feed clients.",
	})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})
	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   m.buckets,
	}, []string{"route", "method"})
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the manager's registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) RecordMatch(scores []int) {
	if m == nil {
		return
	}
	m.matchRequests.Inc()
	m.matchJobsScored.Observe(float64(len(scores)))
	for _, s := range scores {
		m.matchScores.Observe(float64(s))
	}
}

func (m *Manager) RecordRecommendation(cacheHit bool, results int) {
	if m == nil {
		return
	}
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	m.recommendRequests.WithLabelValues(outcome).Inc()
	m.recommendResults.Observe(float64(results))
}

func (m *Manager) RecordDemandRefresh(trigger string, n int) {
	if m == nil {
		return
	}
	m.demandRefreshes.WithLabelValues(trigger).Add(float64(n))
}

func (m *Manager) RecordDemandRefreshError() {
	if m == nil {
		return
	}
	m.demandRefreshErrors.Inc()
}

func (m *Manager) ObserveDemandRefreshDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.demandRefreshTime.Observe(d.Seconds())
}

func (m *Manager) SetWSClients(n int) {
	if m == nil {
		return
	}
	m.wsClients.Set(float64(n))
}

func (m *Manager) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
