package coin

import (
	"sort"
	"strings"

	"github.com/certmint/certmint/errors"
)

// Coins is a set of coins, one per currency, sorted by ticker.
// The zero value is an empty, usable set.
type Coins []*Coin

// NewCoins builds a sorted set out of the given coins. Coins of the
// same currency are combined. Zero value coins are dropped.
func NewCoins(cs ...Coin) (Coins, error) {
	var set Coins
	var err error
	for _, c := range cs {
		set, err = set.Add(c)
		if err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Add returns a new set with the given coin combined in. The receiver
// is not modified. Fails on overflow.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs.Clone(), nil
	}
	res := cs.Clone()
	for i, have := range res {
		if !have.SameType(c) {
			continue
		}
		sum, err := have.Add(c)
		if err != nil {
			return nil, err
		}
		if sum.IsZero() {
			return append(res[:i], res[i+1:]...), nil
		}
		res[i] = &sum
		return res, nil
	}
	res = append(res, c.Clone())
	sort.Slice(res, func(i, j int) bool {
		return res[i].Ticker < res[j].Ticker
	})
	return res, nil
}

// Subtract returns a new set with the given coin value removed.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// AmountOf returns the amount stored for the given currency, or a zero
// value coin of that currency when the set holds none.
func (cs Coins) AmountOf(ticker string) Coin {
	for _, c := range cs {
		if c.Ticker == ticker {
			return *c
		}
	}
	return Coin{Ticker: ticker}
}

// Contains returns true if the set holds at least the given coin value.
func (cs Coins) Contains(c Coin) bool {
	if !c.IsPositive() {
		return false
	}
	return cs.AmountOf(c.Ticker).IsGTE(c)
}

// IsEmpty returns true when the set holds no value.
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsNonNegative returns true if all coins in the set hold a zero or
// positive value.
func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsNonNegative() {
			return false
		}
	}
	return true
}

// Equals returns true if both sets contain the same value.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the set.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// Validate ensures the set is sorted, holds no duplicate currency and
// every coin is valid.
func (cs Coins) Validate() error {
	last := ""
	for _, c := range cs {
		if c == nil {
			return errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrapf(errors.ErrAmount, "zero value coin: %s", c.Ticker)
		}
		if c.Ticker <= last {
			return errors.Wrapf(errors.ErrCurrency, "unsorted or duplicate: %s", c.Ticker)
		}
		last = c.Ticker
	}
	return nil
}

// String provides a human readable representation of the set.
func (cs Coins) String() string {
	if len(cs) == 0 {
		return "(empty)"
	}
	chunks := make([]string, len(cs))
	for i, c := range cs {
		chunks[i] = c.String()
	}
	return strings.Join(chunks, ", ")
}
