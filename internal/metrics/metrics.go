// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream call outcomes
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Authorization decisions
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
	DecisionError = "error"
)

// Recorder is the metrics surface used by the discord client, services and
// middleware.
type Recorder interface {
	RecordUpstreamCall(endpoint, outcome string, duration time.Duration)
	RecordAuthorization(decision string)
	RecordModuleWriteConflict()
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Nop discards every measurement. Used when metrics are not wired, mostly in tests.
type Nop struct{}

func (Nop) RecordUpstreamCall(string, string, time.Duration)     {}
func (Nop) RecordAuthorization(string)                           {}
func (Nop) RecordModuleWriteConflict()                           {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	authorizations  *prometheus.CounterVec
	writeConflicts  prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guildpanel_upstream_calls_total",
			Help: "Discord API calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guildpanel_upstream_latency_seconds",
			Help:    "Discord API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		authorizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guildpanel_authorizations_total",
			Help: "Guild permission checks by decision",
		}, []string{"decision"}),
		writeConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guildpanel_module_write_conflicts_total",
			Help: "Module writes that lost a version race and were retried",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guildpanel_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guildpanel_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.upstreamCalls,
		c.upstreamLatency,
		c.authorizations,
		c.writeConflicts,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

// RecordUpstreamCall records one Discord API call.
func (c *Collector) RecordUpstreamCall(endpoint, outcome string, duration time.Duration) {
	c.upstreamCalls.WithLabelValues(endpoint, outcome).Inc()
	c.upstreamLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordAuthorization records a permission guard decision.
func (c *Collector) RecordAuthorization(decision string) {
	c.authorizations.WithLabelValues(decision).Inc()
}

// RecordModuleWriteConflict records a lost compare-and-swap.
func (c *Collector) RecordModuleWriteConflict() {
	c.writeConflicts.Inc()
}

// RecordHTTPRequest records a served request. route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
