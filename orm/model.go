package orm

import (
	"github.com/certmint/certmint"
)

// Model is implemented by any entity that can be stored in a bucket.
type Model interface {
	certmint.Persistent

	// Validate returns an error if the model is in an invalid state and
	// must not be persisted.
	Validate() error
}
