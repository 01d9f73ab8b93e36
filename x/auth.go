/*
Package x holds the engines and shared engine utilities.

Code in this package is common to the engine implementations under x/
but not fundamental enough to live in the root package.
*/
package x

import (
	"github.com/certmint/certmint"
)

// Authenticator is an interface we can use to extract authentication
// info from the context. This should be passed into the constructor of
// handlers, so we can use mock authentication for unit tests.
type Authenticator interface {
	// GetConditions reveals all conditions fulfilled for this request.
	GetConditions(certmint.Context) []certmint.Condition

	// HasAddress checks if the given address is the address of any of
	// the conditions fulfilled for this request.
	HasAddress(certmint.Context, certmint.Address) bool
}

// MainSigner returns the first condition fulfilled for this request, or
// nil if there are none.
func MainSigner(ctx certmint.Context, auth Authenticator) certmint.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllConditions returns true if all given conditions are fulfilled
// for this request.
func HasAllConditions(ctx certmint.Context, auth Authenticator, required []certmint.Condition) bool {
	perms := auth.GetConditions(ctx)
	for _, req := range required {
		found := false
		for _, perm := range perms {
			if req.Equals(perm) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ChainAuth groups together many authenticators.
type ChainAuth struct {
	impls []Authenticator
}

// NewChainAuth creates an authenticator that checks against all given
// authenticators.
func NewChainAuth(impls ...Authenticator) ChainAuth {
	return ChainAuth{impls: impls}
}

var _ Authenticator = ChainAuth{}

// GetConditions combines the conditions of all chained authenticators.
func (a ChainAuth) GetConditions(ctx certmint.Context) []certmint.Condition {
	var res []certmint.Condition
	for _, impl := range a.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true if any of the chained authenticators owns the
// address.
func (a ChainAuth) HasAddress(ctx certmint.Context, addr certmint.Address) bool {
	for _, impl := range a.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}
