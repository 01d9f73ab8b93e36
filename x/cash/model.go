package cash

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/orm"
)

// BucketName is the wallet storage namespace. Wallets are keyed by the
// raw account address.
const BucketName = "cash"

// Set is a wallet, the set of coins an address holds.
type Set struct {
	Coins coin.Coins `json:"coins"`
}

var _ orm.Model = (*Set)(nil)

func (s *Set) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func (s *Set) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, s)
}

// Validate requires the wallet to hold a normalized, non-negative set
// of coins. Negative balances never persist.
func (s *Set) Validate() error {
	if err := s.Coins.Validate(); err != nil {
		return err
	}
	if !s.Coins.IsNonNegative() {
		return errors.Wrap(errors.ErrModel, "negative balance")
	}
	return nil
}

// NewBucket returns a bucket for keeping wallet state.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// WalletCoins returns the coins stored in the wallet of the given
// address. A missing wallet is an empty wallet.
func WalletCoins(db certmint.ReadOnlyKVStore, bucket orm.ModelBucket, addr certmint.Address) (coin.Coins, error) {
	var set Set
	switch err := bucket.One(db, addr, &set); {
	case err == nil:
		return set.Coins, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}
