package registry

import "github.com/certmint/certmint/errors"

var (
	// ErrDuplicateAsset is returned when issuing against an identifier
	// whose canonical key is already bound. Registered identifiers are
	// never released.
	ErrDuplicateAsset = errors.Register(1300, "asset identifier already registered")

	// ErrCounterOverflow is returned when the certificate id counter is
	// saturated. The counter never wraps around.
	ErrCounterOverflow = errors.Register(1301, "certificate counter overflow")
)
