// Package metrics exposes Prometheus counters for outbound platform calls,
// inbound webhooks and bridge outcomes.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "toxico_bridge"

// Metrics holds the service registry and its collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests  *prometheus.CounterVec
	upstreamRetries   *prometheus.CounterVec
	webhooksReceived  *prometheus.CounterVec
	webhookDuplicates *prometheus.CounterVec
	bridgeResults     *prometheus.CounterVec
}

// New creates a Metrics instance on a private registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Outbound platform API requests by platform and status code.",
			},
			[]string{"platform", "status"},
		),
		upstreamRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_retries_total",
				Help:      "Outbound requests retried after HTTP 429.",
			},
			[]string{"platform"},
		),
		webhooksReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhooks_received_total",
				Help:      "Inbound webhooks by platform, topic and verification result.",
			},
			[]string{"platform", "topic", "verified"},
		),
		webhookDuplicates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_duplicates_total",
				Help:      "Inbound webhook deliveries dropped as duplicates.",
			},
			[]string{"platform"},
		),
		bridgeResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bridge_results_total",
				Help:      "Bridge translations by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
	}

	registry.MustRegister(
		m.upstreamRequests,
		m.upstreamRetries,
		m.webhooksReceived,
		m.webhookDuplicates,
		m.bridgeResults,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) UpstreamRequest(platform string, status int) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(platform, strconv.Itoa(status)).Inc()
}

func (m *Metrics) UpstreamRetry(platform string) {
	if m == nil {
		return
	}
	m.upstreamRetries.WithLabelValues(platform).Inc()
}

func (m *Metrics) WebhookReceived(platform, topic string, verified bool) {
	if m == nil {
		return
	}
	m.webhooksReceived.WithLabelValues(platform, topic, strconv.FormatBool(verified)).Inc()
}

func (m *Metrics) WebhookDuplicate(platform string) {
	if m == nil {
		return
	}
	m.webhookDuplicates.WithLabelValues(platform).Inc()
}

func (m *Metrics) BridgeResult(operation, status string) {
	if m == nil {
		return
	}
	m.bridgeResults.WithLabelValues(operation, status).Inc()
}
