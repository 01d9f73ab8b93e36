package payment

import "github.com/certmint/certmint/errors"

var (
	// ErrPriceNotSet is returned when paying in a currency that has no
	// configured price.
	ErrPriceNotSet = errors.Register(1600, "no price configured for currency")

	// ErrStatsOverflow is returned when a statistics counter cannot be
	// incremented without overflowing. The payment is rejected rather
	// than recorded with corrupted totals.
	ErrStatsOverflow = errors.Register(1601, "statistics counter overflow")

	// ErrAccountBinding is returned when paying from an account the
	// signer does not control.
	ErrAccountBinding = errors.Register(1602, "account not bound to signer")
)
