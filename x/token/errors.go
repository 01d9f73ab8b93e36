package token

import "github.com/certmint/certmint/errors"

var (
	// ErrSupplyCap is returned when minting would push the total supply
	// over the configured maximum.
	ErrSupplyCap = errors.Register(1400, "maximum supply exceeded")
)
