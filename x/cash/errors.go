package cash

import "github.com/certmint/certmint/errors"

var (
	// ErrEmptyWallet is returned when a transfer is attempted out of an
	// address that holds no funds at all.
	ErrEmptyWallet = errors.Register(1100, "wallet is empty")

	// ErrReserveViolation is returned when a withdrawal would leave an
	// account below its configured minimum reserve.
	ErrReserveViolation = errors.Register(1101, "minimum reserve violation")
)
