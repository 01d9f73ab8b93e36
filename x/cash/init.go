package cash

import (
	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
)

// Initializer fulfils the certmint.Initializer interface to load
// initial wallets from the genesis options.
type Initializer struct{}

var _ certmint.Initializer = Initializer{}

// FromGenesis initializes wallets declared under the "cash" option.
func (Initializer) FromGenesis(opts certmint.Options, db certmint.KVStore) error {
	accounts := []struct {
		Address certmint.Address `json:"address"`
		Coins   []coin.Coin      `json:"coins"`
	}{}
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return errors.Wrap(err, "cannot load cash options")
	}
	bucket := NewBucket()
	for i, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d address", i)
		}
		coins, err := coin.NewCoins(acc.Coins...)
		if err != nil {
			return errors.Wrapf(err, "account #%d coins", i)
		}
		wallet := Set{Coins: coins}
		if err := bucket.Put(db, acc.Address, &wallet); err != nil {
			return errors.Wrapf(err, "account #%d wallet", i)
		}
	}
	return nil
}
