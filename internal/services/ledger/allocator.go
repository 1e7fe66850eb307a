// Package ledger allocates deposit coordinates for the on-ledger currency.
// All payments share one configured XRP wallet address; a per-payment
// destination tag disambiguates them.
package ledger

import (
	domainerrors "github.com/sohamgherwada/PayQI/internal/errors"
)

// maxDestinationTag bounds the tag to the XRP destination tag field width.
const maxDestinationTag = 4294967295 // 2^32 - 1

// Allocation is a deposit address plus the tag a payer must attach.
type Allocation struct {
	Address string
	Tag     uint32
}

// Allocator derives deterministic deposit allocations.
type Allocator interface {
	Allocate(merchantID, paymentID uint) (Allocation, error)
}

type allocator struct {
	walletAddress string
}

// NewAllocator creates an allocator for the configured shared wallet address.
// The address may be empty; Allocate reports the misconfiguration instead,
// so a missing wallet only breaks XRP payments, not startup.
func NewAllocator(walletAddress string) Allocator {
	return &allocator{walletAddress: walletAddress}
}

func (a *allocator) Allocate(merchantID, paymentID uint) (Allocation, error) {
	if a.walletAddress == "" {
		return Allocation{}, domainerrors.ErrWalletNotConfigured
	}

	// Deterministic per-payment tag; collision-free for realistic id ranges.
	tag := (uint64(merchantID)*1_000_000 + uint64(paymentID)) % maxDestinationTag

	return Allocation{
		Address: a.walletAddress,
		Tag:     uint32(tag),
	}, nil
}
