package market

import "github.com/certmint/certmint/errors"

var (
	// ErrInvalidPrice is returned when a listing price is zero or
	// negative.
	ErrInvalidPrice = errors.Register(1500, "invalid listing price")

	// ErrListingInactive is returned when buying or cancelling a listing
	// that was already sold or cancelled. Consumed listings never
	// reactivate.
	ErrListingInactive = errors.Register(1501, "listing is not active")

	// ErrFeeTooHigh is returned when configuring a platform fee over the
	// allowed maximum.
	ErrFeeTooHigh = errors.Register(1502, "platform fee too high")

	// ErrSelfTrade is returned when a seller attempts to buy their own
	// listing.
	ErrSelfTrade = errors.Register(1503, "cannot buy own listing")
)
