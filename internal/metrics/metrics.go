// Package metrics exposes prometheus collectors for payment lifecycle events.
package metrics

import (
	"github.com/sohamgherwada/PayQI/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	paymentCreations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payqi_payment_creations_total",
			Help: "Total number of payment creation attempts by provider and result",
		},
		[]string{"provider", "result"},
	)

	webhookOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payqi_webhook_outcomes_total",
			Help: "Total number of applied webhook settlement outcomes by status",
		},
		[]string{"status"},
	)
)

// Register registers all collectors with the default registry.
func Register() {
	prometheus.MustRegister(paymentCreations, webhookOutcomes)
}

// PrometheusCollector implements the payment service's MetricsCollector.
type PrometheusCollector struct{}

func (PrometheusCollector) RecordCreation(provider models.PaymentProvider, result string) {
	paymentCreations.WithLabelValues(string(provider), result).Inc()
}

func (PrometheusCollector) RecordWebhookOutcome(status models.PaymentStatus) {
	webhookOutcomes.WithLabelValues(string(status)).Inc()
}
