// Package certtest provides common helpers for engine tests.
package certtest

import (
	"github.com/certmint/certmint"
)

// Auth is a mock implementing the x.Authenticator interface.
type Auth struct {
	// Signer is returned by GetConditions if set.
	Signer certmint.Condition
	// Signers are returned as conditions if Signer is not set.
	Signers []certmint.Condition
}

func (a *Auth) GetConditions(certmint.Context) []certmint.Condition {
	if a.Signer != nil {
		return []certmint.Condition{a.Signer}
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx certmint.Context, addr certmint.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// NewCondition returns a random condition. Each call returns a unique
// instance.
func NewCondition() certmint.Condition {
	return certmint.NewCondition("test", "rnd", sequenceID(condSeq.next()))
}

// NewKey returns a new public key condition. It is a convenience alias
// for tests that model user accounts.
func NewKey() certmint.Condition {
	return certmint.NewCondition("sigs", "ed25519", sequenceID(condSeq.next()))
}

type counter struct{ val int64 }

func (c *counter) next() int64 {
	c.val++
	return c.val
}

var condSeq counter

func sequenceID(n int64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}
