// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "invoicer"

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcRequests       *prometheus.CounterVec
	rpcDuration       *prometheus.HistogramVec
	invoicesSaved     *prometheus.CounterVec
	documentsRendered *prometheus.CounterVec
	logoFallbacks     prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		invoicesSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_saved_total",
			Help:      "Invoices written to the store by operation.",
		}, []string{"operation"}),
		documentsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "Invoice documents rendered by format.",
		}, []string{"format"}),
		logoFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logo_fallbacks_total",
			Help:      "Renders that drew the logo placeholder because the logo could not be decoded.",
		}),
	}
	reg.MustRegister(m.rpcRequests, m.rpcDuration, m.invoicesSaved, m.documentsRendered, m.logoFallbacks)
	return m
}

// ObserveRPC records one finished call. code is "ok" on success.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
}

// InvoiceSaved counts a create, update or delete.
func (m *Metrics) InvoiceSaved(operation string) {
	if m == nil {
		return
	}
	m.invoicesSaved.WithLabelValues(operation).Inc()
}

// DocumentRendered counts a rendered document.
func (m *Metrics) DocumentRendered(format string) {
	if m == nil {
		return
	}
	m.documentsRendered.WithLabelValues(format).Inc()
}

func (m *Metrics) LogoFallback() {
	if m == nil {
		return
	}
	m.logoFallbacks.Inc()
}
