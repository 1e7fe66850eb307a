package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment. Transitions are
// monotonic: pending moves to exactly one terminal state and stays there.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusExpired   PaymentStatus = "expired"
)

// IsTerminal reports whether the status absorbs further transitions.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusFailed || s == PaymentStatusCompleted || s == PaymentStatusExpired
}

// PaymentProvider identifies how a payment settles. It is resolved once
// from the currency at creation and never re-derived.
type PaymentProvider string

const (
	// ProviderLedger settles on the shared XRP address with a destination tag.
	ProviderLedger PaymentProvider = "xrp"
	// ProviderGateway settles through the NOWPayments invoice API.
	ProviderGateway PaymentProvider = "nowpayments"
)

type Payment struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	MerchantID uint            `gorm:"index;not null" json:"merchant_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(18,8);not null" json:"amount"`
	Currency   string          `gorm:"size:16;not null" json:"currency"`
	Status     PaymentStatus   `gorm:"size:32;not null;default:'pending'" json:"status"`
	Provider   PaymentProvider `gorm:"size:32;not null" json:"provider"`

	// Enrichment fields, nil until the provider/allocator step fills them.
	// Unique when set: this is the webhook correlation key. Postgres
	// treats NULLs as distinct, so unenriched rows are unaffected.
	ProviderInvoiceID *string `gorm:"size:128;uniqueIndex" json:"provider_invoice_id"`
	PayAddress        *string `gorm:"size:256" json:"pay_address"`
	CheckoutURL       *string `gorm:"size:512" json:"checkout_url"`
	TxHash            *string `gorm:"size:256" json:"tx_hash"`
	RawPayload        string  `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupportedCurrencies is the closed set of accepted pay currencies.
// Input is case-normalized to uppercase before the lookup.
var SupportedCurrencies = []string{"BTC", "ETH", "USDT", "USDC", "XRP", "LTC", "DOGE"}

// LedgerCurrency is the one currency settled on-ledger instead of via the gateway.
const LedgerCurrency = "XRP"

// IsSupportedCurrency checks an already-uppercased currency code.
func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

// ProviderForCurrency resolves the settlement provider for an uppercased currency.
func ProviderForCurrency(currency string) PaymentProvider {
	if currency == LedgerCurrency {
		return ProviderLedger
	}
	return ProviderGateway
}
