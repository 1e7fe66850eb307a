package payment

import (
	"context"

	"github.com/sohamgherwada/PayQI/internal/models"
	"github.com/sohamgherwada/PayQI/internal/services/gateway"
	"github.com/sohamgherwada/PayQI/internal/services/ledger"

	"github.com/shopspring/decimal"
)

// Service is the payment lifecycle engine. It owns every transition a
// payment goes through, from creation and enrichment to webhook settlement.
type Service interface {
	CreatePayment(ctx context.Context, merchantID uint, amount decimal.Decimal, currency string) (*CreatePaymentResult, error)
	GetPayment(ctx context.Context, paymentID, merchantID uint) (*models.Payment, error)
	ListPayments(ctx context.Context, merchantID uint, skip, limit int) ([]models.Payment, error)
	ApplyWebhookOutcome(ctx context.Context, providerInvoiceID string, outcome Outcome) error
}

// CreatePaymentResult is what a merchant gets back from payment creation.
type CreatePaymentResult struct {
	PaymentID         uint                 `json:"payment_id"`
	Status            models.PaymentStatus `json:"status"`
	ProviderInvoiceID *string              `json:"provider_invoice_id"`
	PayAddress        *string              `json:"pay_address"`
	CheckoutURL       *string              `json:"checkout_url"`
}

// Outcome is a terminal settlement result pushed by a provider webhook.
type Outcome struct {
	Status models.PaymentStatus
	TxHash string
	Raw    string
}

// Dependencies required by the lifecycle engine

type Allocator interface {
	Allocate(merchantID, paymentID uint) (ledger.Allocation, error)
}

type RateConverter interface {
	Convert(ctx context.Context, usdAmount decimal.Decimal) decimal.Decimal
}

type InvoiceClient interface {
	CreateInvoice(ctx context.Context, amountUSD decimal.Decimal, currency string, merchantID uint) (*gateway.Invoice, error)
}

// MetricsCollector records lifecycle events. A no-op implementation keeps
// tests and minimal deployments free of a metrics backend.
type MetricsCollector interface {
	RecordCreation(provider models.PaymentProvider, result string)
	RecordWebhookOutcome(status models.PaymentStatus)
}
