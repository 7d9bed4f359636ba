// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inventory/analytics"
)

// Metrics groups the application's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	recommendations  prometheus.Counter
	degradedInputs   *prometheus.CounterVec
	stockStatus      *prometheus.CounterVec
	orderTransitions *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "recommendations_total",
			Help:      "Reorder recommendations computed.",
		}),
		degradedInputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "recommendation_degraded_inputs_total",
			Help:      "Recommendation inputs replaced by their defaults.",
		}, []string{"input"}),
		stockStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "stock_status_total",
			Help:      "Products classified per stock status.",
		}, []string{"status"}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "order_transitions_total",
			Help:      "Orders entering each status.",
		}, []string{"status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inventory",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.recommendations,
		m.degradedInputs,
		m.stockStatus,
		m.orderTransitions,
		m.requestDuration,
	)
	return m
}

// ObserveRecommendation counts a computed recommendation and its degraded inputs.
func (m *Metrics) ObserveRecommendation(rec analytics.Recommendation, status analytics.StockStatus) {
	m.recommendations.Inc()
	if rec.ServiceLevelDefaulted {
		m.degradedInputs.WithLabelValues("service_level").Inc()
	}
	if rec.LeadTimeDefaulted {
		m.degradedInputs.WithLabelValues("lead_time").Inc()
	}
	m.stockStatus.WithLabelValues(string(status)).Inc()
}

// ObserveDegradedInput counts a request field replaced by its default before storage.
func (m *Metrics) ObserveDegradedInput(input string) {
	m.degradedInputs.WithLabelValues(input).Inc()
}

func (m *Metrics) ObserveOrderTransition(status string) {
	m.orderTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
