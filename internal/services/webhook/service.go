// Package webhook authenticates and applies provider settlement
// notifications (NOWPayments IPN callbacks and the XRP monitor feed,
// which share one envelope).
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"

	domainerrors "github.com/sohamgherwada/PayQI/internal/errors"
	"github.com/sohamgherwada/PayQI/internal/models"
	"github.com/sohamgherwada/PayQI/internal/services/payment"

	"go.uber.org/zap"
)

// Service processes inbound provider notifications.
type Service interface {
	// Handle verifies, parses and applies one notification. A nil return
	// means the delivery should be acknowledged with a 2xx; unknown
	// invoices and outcome conflicts are logged and still acknowledged so
	// the provider does not retry-storm an unresolvable delivery.
	Handle(ctx context.Context, body []byte, signature string) error
}

type service struct {
	engine    payment.Service
	ipnSecret string
	logger    *zap.Logger
}

func NewService(engine payment.Service, ipnSecret string, logger *zap.Logger) Service {
	return &service{
		engine:    engine,
		ipnSecret: ipnSecret,
		logger:    logger,
	}
}

// notification is the provider envelope. payment_id arrives as a number
// from NOWPayments and as a string from the XRP monitor.
type notification struct {
	PaymentID     json.RawMessage `json:"payment_id"`
	PaymentStatus string          `json:"payment_status"`
	PayinHash     string          `json:"payin_hash"`
	TxHash        string          `json:"tx_hash"`
}

func (s *service) Handle(ctx context.Context, body []byte, signature string) error {
	if err := s.verify(body, signature); err != nil {
		return err
	}

	var n notification
	if err := json.Unmarshal(body, &n); err != nil {
		return domainerrors.Validation("invalid webhook payload")
	}

	invoiceID := rawString(n.PaymentID)
	if invoiceID == "" {
		return domainerrors.Validation("missing payment_id")
	}

	status, terminal := mapProviderStatus(n.PaymentStatus)
	if !terminal {
		s.logger.Debug("ignoring non-terminal webhook status",
			zap.String("provider_invoice_id", invoiceID),
			zap.String("payment_status", n.PaymentStatus))
		return nil
	}

	txHash := n.PayinHash
	if txHash == "" {
		txHash = n.TxHash
	}

	err := s.engine.ApplyWebhookOutcome(ctx, invoiceID, payment.Outcome{
		Status: status,
		TxHash: txHash,
		Raw:    string(body),
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domainerrors.ErrPaymentNotFound):
		// Not 5xx-worthy: the provider cannot fix this by retrying.
		s.logger.Warn("webhook for unknown payment",
			zap.String("provider_invoice_id", invoiceID))
		return nil
	case errors.Is(err, payment.ErrOutcomeConflict):
		s.logger.Warn("webhook outcome conflict, not applied",
			zap.String("provider_invoice_id", invoiceID),
			zap.String("reported_status", string(status)))
		return nil
	default:
		return err
	}
}

// verify checks the HMAC-SHA512 of the raw body against the shared IPN
// secret with a constant-time compare. Nothing in the payload is trusted
// before this passes.
func (s *service) verify(body []byte, signature string) error {
	if s.ipnSecret == "" || signature == "" {
		return domainerrors.ErrInvalidSignature
	}

	mac := hmac.New(sha512.New, []byte(s.ipnSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domainerrors.ErrInvalidSignature
	}
	return nil
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	return string(raw)
}

// mapProviderStatus translates a provider status string into a terminal
// lifecycle state. Intermediate statuses (waiting, confirming, sending,
// partially_paid) carry no transition.
func mapProviderStatus(providerStatus string) (models.PaymentStatus, bool) {
	switch providerStatus {
	case "finished", "confirmed":
		return models.PaymentStatusCompleted, true
	case "failed", "refunded":
		return models.PaymentStatusFailed, true
	case "expired":
		return models.PaymentStatusExpired, true
	default:
		return "", false
	}
}
