package payment

import "github.com/sohamgherwada/PayQI/internal/models"

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordCreation(models.PaymentProvider, string) {}
func (n *NoopMetricsCollector) RecordWebhookOutcome(models.PaymentStatus)     {}
