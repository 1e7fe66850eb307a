// Package gateway talks to the NOWPayments invoice API for every currency
// that does not settle on-ledger.
package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainerrors "github.com/sohamgherwada/PayQI/internal/errors"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config holds gateway client configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	CallbackURL string
	Timeout     time.Duration
}

// DefaultConfig targets the production NOWPayments endpoint.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.nowpayments.io",
		Timeout: 30 * time.Second,
	}
}

// Invoice is the subset of the provider response the lifecycle engine
// persists, plus the raw body kept for audit.
type Invoice struct {
	PaymentID   string
	PayAddress  string
	CheckoutURL string
	Raw         []byte
}

// Client creates provider invoices.
type Client interface {
	CreateInvoice(ctx context.Context, amountUSD decimal.Decimal, currency string, merchantID uint) (*Invoice, error)
}

type client struct {
	http   *resty.Client
	cfg    Config
	logger *zap.Logger
}

// NewClient creates a gateway client. A missing API key is reported per
// call, not at construction, so the rest of the API stays useful.
func NewClient(cfg Config, logger *zap.Logger) Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &client{
		http:   httpClient,
		cfg:    cfg,
		logger: logger,
	}
}

type createPaymentRequest struct {
	PriceAmount      float64 `json:"price_amount"`
	PriceCurrency    string  `json:"price_currency"`
	PayCurrency      string  `json:"pay_currency"`
	OrderID          string  `json:"order_id"`
	OrderDescription string  `json:"order_description"`
	IPNCallbackURL   string  `json:"ipn_callback_url,omitempty"`
}

type createPaymentResponse struct {
	PaymentID  any    `json:"payment_id"`
	PayAddress string `json:"pay_address"`
	InvoiceURL string `json:"invoice_url"`
	PayURL     string `json:"pay_url"`
}

func (c *client) CreateInvoice(ctx context.Context, amountUSD decimal.Decimal, currency string, merchantID uint) (*Invoice, error) {
	if c.cfg.APIKey == "" {
		return nil, domainerrors.ErrGatewayNotConfigured
	}

	amount, _ := amountUSD.Float64()
	body := createPaymentRequest{
		PriceAmount:      amount,
		PriceCurrency:    "usd",
		PayCurrency:      strings.ToLower(currency),
		OrderID:          fmt.Sprintf("merchant_%d_%s", merchantID, uuid.NewString()),
		OrderDescription: fmt.Sprintf("Payment for merchant %d", merchantID),
		IPNCallbackURL:   c.cfg.CallbackURL,
	}

	var out createPaymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.cfg.APIKey).
		SetBody(body).
		SetResult(&out).
		Post("/v1/payment")
	if err != nil {
		c.logger.Error("gateway request failed",
			zap.Uint("merchant_id", merchantID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrInvoiceCreation, err)
	}
	if resp.IsError() {
		c.logger.Error("gateway rejected invoice",
			zap.Uint("merchant_id", merchantID),
			zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("%w: status %d", domainerrors.ErrInvoiceCreation, resp.StatusCode())
	}

	return &Invoice{
		PaymentID:   paymentIDString(out.PaymentID),
		PayAddress:  out.PayAddress,
		CheckoutURL: checkoutURL(out),
		Raw:         resp.Body(),
	}, nil
}

// paymentIDString normalizes the provider's payment_id, which the API has
// returned as both a number and a string across versions.
func paymentIDString(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return decimal.NewFromFloat(v).String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func checkoutURL(resp createPaymentResponse) string {
	if resp.InvoiceURL != "" {
		return resp.InvoiceURL
	}
	return resp.PayURL
}
