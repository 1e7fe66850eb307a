// Package payment implements the payment lifecycle engine: the state
// machine that creates a payment, enriches it with provider or ledger
// coordinates, and applies webhook-driven settlement.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	domainerrors "github.com/sohamgherwada/PayQI/internal/errors"
	"github.com/sohamgherwada/PayQI/internal/models"
	"github.com/sohamgherwada/PayQI/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxListLimit = 100

type service struct {
	payments  repositories.PaymentRepository
	allocator Allocator
	rates     RateConverter
	gateway   InvoiceClient
	metrics   MetricsCollector
	logger    *zap.Logger
}

// NewService creates a new payment lifecycle engine.
func NewService(
	payments repositories.PaymentRepository,
	allocator Allocator,
	rates RateConverter,
	gatewayClient InvoiceClient,
	metrics MetricsCollector,
	logger *zap.Logger,
) Service {
	return &service{
		payments:  payments,
		allocator: allocator,
		rates:     rates,
		gateway:   gatewayClient,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreatePayment validates the request, persists a pending row before any
// external call, then enriches it through the ledger allocator or the
// gateway. A failed enrichment marks the row failed and propagates; the
// record stays behind as the audit trail of the attempt.
func (s *service) CreatePayment(ctx context.Context, merchantID uint, amount decimal.Decimal, currency string) (*CreatePaymentResult, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !models.IsSupportedCurrency(currency) {
		return nil, domainerrors.ErrUnsupportedCurrency
	}
	if !amount.IsPositive() {
		return nil, domainerrors.ErrInvalidAmount
	}

	p := &models.Payment{
		MerchantID: merchantID,
		Amount:     amount,
		Currency:   currency,
		Status:     models.PaymentStatusPending,
		Provider:   models.ProviderForCurrency(currency),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		s.logger.Error("failed to persist pending payment",
			zap.Uint("merchant_id", merchantID), zap.Error(err))
		return nil, domainerrors.ErrPaymentFailed
	}

	var err error
	if p.Provider == models.ProviderLedger {
		err = s.enrichLedger(ctx, p)
	} else {
		err = s.enrichGateway(ctx, p)
	}
	if err != nil {
		s.markFailed(ctx, p)
		s.metrics.RecordCreation(p.Provider, "failed")
		return nil, s.mapEnrichmentError(err)
	}

	if err := s.payments.Update(ctx, p); err != nil {
		s.logger.Error("failed to persist enrichment",
			zap.Uint("payment_id", p.ID), zap.Error(err))
		s.markFailed(ctx, p)
		s.metrics.RecordCreation(p.Provider, "failed")
		return nil, domainerrors.ErrPaymentFailed
	}

	s.metrics.RecordCreation(p.Provider, "created")
	s.logger.Info("payment created",
		zap.Uint("payment_id", p.ID),
		zap.Uint("merchant_id", merchantID),
		zap.String("currency", currency),
		zap.String("provider", string(p.Provider)))

	return &CreatePaymentResult{
		PaymentID:         p.ID,
		Status:            p.Status,
		ProviderInvoiceID: p.ProviderInvoiceID,
		PayAddress:        p.PayAddress,
		CheckoutURL:       p.CheckoutURL,
	}, nil
}

// enrichLedger fills in the shared deposit address and destination tag for
// the on-ledger currency. The synthesized invoice id is the correlation key
// for later reconciliation; there is no external invoice and no checkout URL.
func (s *service) enrichLedger(ctx context.Context, p *models.Payment) error {
	alloc, err := s.allocator.Allocate(p.MerchantID, p.ID)
	if err != nil {
		return err
	}

	assetAmount := s.rates.Convert(ctx, p.Amount)

	invoiceID := fmt.Sprintf("xrp_%d_%d", p.ID, alloc.Tag)
	raw, err := json.Marshal(map[string]any{
		"destination_tag": alloc.Tag,
		"amount_xrp":      assetAmount.String(),
		"amount_usd":      p.Amount.String(),
	})
	if err != nil {
		return err
	}

	p.PayAddress = &alloc.Address
	p.ProviderInvoiceID = &invoiceID
	p.RawPayload = string(raw)
	return nil
}

func (s *service) enrichGateway(ctx context.Context, p *models.Payment) error {
	invoice, err := s.gateway.CreateInvoice(ctx, p.Amount, p.Currency, p.MerchantID)
	if err != nil {
		return err
	}

	p.ProviderInvoiceID = &invoice.PaymentID
	p.PayAddress = &invoice.PayAddress
	if invoice.CheckoutURL != "" {
		p.CheckoutURL = &invoice.CheckoutURL
	}
	p.RawPayload = string(invoice.Raw)
	return nil
}

// markFailed records the terminal failed state. A failure here is logged
// but not surfaced: the caller already has the enrichment error.
func (s *service) markFailed(ctx context.Context, p *models.Payment) {
	p.Status = models.PaymentStatusFailed
	if err := s.payments.Update(ctx, p); err != nil {
		s.logger.Error("failed to mark payment as failed",
			zap.Uint("payment_id", p.ID), zap.Error(err))
	}
}

func (s *service) mapEnrichmentError(err error) error {
	var domainErr *domainerrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return fmt.Errorf("%w: %v", domainerrors.ErrPaymentFailed, err)
}

// GetPayment fetches a payment scoped to the requesting merchant. A payment
// owned by someone else is reported as not found, indistinguishable from a
// payment that does not exist.
func (s *service) GetPayment(ctx context.Context, paymentID, merchantID uint) (*models.Payment, error) {
	p, err := s.payments.GetByIDForMerchant(ctx, paymentID, merchantID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, domainerrors.ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPayments returns the merchant's payments newest first.
func (s *service) ListPayments(ctx context.Context, merchantID uint, skip, limit int) ([]models.Payment, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	return s.payments.ListByMerchant(ctx, merchantID, skip, limit)
}

// ApplyWebhookOutcome applies a settlement outcome under a row lock.
// Redelivery of an already-recorded outcome is a no-op; a different
// terminal outcome is a conflict that is surfaced for logging, never
// applied over the recorded state.
func (s *service) ApplyWebhookOutcome(ctx context.Context, providerInvoiceID string, outcome Outcome) error {
	applied := false
	err := s.payments.UpdateWithLock(ctx, providerInvoiceID, func(p *models.Payment) error {
		if p.Status == outcome.Status {
			return repositories.ErrNoUpdate
		}
		if p.Status.IsTerminal() {
			s.logger.Warn("webhook outcome conflicts with settled payment",
				zap.Uint("payment_id", p.ID),
				zap.String("recorded_status", string(p.Status)),
				zap.String("reported_status", string(outcome.Status)))
			return ErrOutcomeConflict
		}

		p.Status = outcome.Status
		if outcome.TxHash != "" {
			p.TxHash = &outcome.TxHash
		}
		if outcome.Raw != "" {
			p.RawPayload = outcome.Raw
		}
		applied = true
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return domainerrors.ErrPaymentNotFound
		}
		return err
	}

	if applied {
		s.metrics.RecordWebhookOutcome(outcome.Status)
	}
	return nil
}
