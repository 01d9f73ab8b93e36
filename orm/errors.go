package orm

import "github.com/certmint/certmint/errors"

var (
	// ErrInvalidIndex is returned when an index specification is
	// malformed or referencing a missing index.
	ErrInvalidIndex = Register(100, "invalid index")

	// ErrBucketName is returned when a bucket is created with an
	// invalid name.
	ErrBucketName = Register(101, "invalid bucket name")

	// ErrSequenceOverflow is returned when incrementing a counter past
	// its maximum value. A saturated counter is permanent and the
	// operation relying on it must fail.
	ErrSequenceOverflow = Register(104, "sequence counter overflow")
)

// Register is a proxy for the errors package Register function, so that
// orm errors stay within their own code range.
func Register(code uint32, description string) *errors.Error {
	if code < 100 || code > 109 {
		panic("orm error code must be in range 100-109")
	}
	return errors.Register(code, description)
}
