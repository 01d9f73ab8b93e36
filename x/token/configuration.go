package token

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/gconf"
)

// Configuration is the token engine singleton. TotalSupply is part of
// the configuration record on purpose: checking the cap and moving the
// counter is a single read-modify-write of one entity.
type Configuration struct {
	// Authority is the only address allowed to run administrative
	// operations.
	Authority certmint.Address `json:"authority"`
	// Ticker is the currency minted by this engine.
	Ticker string `json:"ticker"`
	// BaseTicker is the currency accepted as payment.
	BaseTicker string `json:"base_ticker"`
	// MintRate is the number of engine currency units minted per base
	// currency unit.
	MintRate int64 `json:"mint_rate"`
	// MaxSupply caps the total supply, in engine currency units.
	MaxSupply int64 `json:"max_supply"`
	// TotalSupply is the amount currently in circulation.
	TotalSupply int64 `json:"total_supply"`
	// MinimumReserve is the base currency balance that must remain in
	// the pool after any withdrawal.
	MinimumReserve coin.Coin `json:"minimum_reserve"`
	// Paused halts purchase, redeem and spend operations.
	Paused bool `json:"paused"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", c.Authority.Validate())
	if !coin.IsCC(c.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.ErrCurrency)
	}
	if !coin.IsCC(c.BaseTicker) {
		errs = errors.AppendField(errs, "BaseTicker", errors.ErrCurrency)
	}
	if c.Ticker == c.BaseTicker {
		errs = errors.AppendField(errs, "Ticker", errors.Wrap(errors.ErrCurrency, "same as base"))
	}
	if c.MintRate < 1 {
		errs = errors.AppendField(errs, "MintRate", errors.ErrAmount)
	}
	if c.MaxSupply < 1 {
		errs = errors.AppendField(errs, "MaxSupply", errors.ErrAmount)
	}
	if c.TotalSupply < 0 || c.TotalSupply > c.MaxSupply {
		errs = errors.AppendField(errs, "TotalSupply", errors.ErrAmount)
	}
	if !c.MinimumReserve.IsZero() {
		errs = errors.AppendField(errs, "MinimumReserve", c.MinimumReserve.Validate())
	}
	if !c.MinimumReserve.IsNonNegative() {
		errs = errors.AppendField(errs, "MinimumReserve", errors.ErrAmount)
	}
	return errs
}

// PoolAddress returns the address holding the base currency paid in
// for the given engine currency. It is a pure function of the ticker.
func PoolAddress(ticker string) certmint.Address {
	return certmint.NewCondition("token", "pool", []byte(ticker)).Address()
}

func loadConf(db certmint.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "token", &conf); err != nil {
		return nil, errors.Wrap(err, "cannot load configuration")
	}
	return &conf, nil
}

func saveConf(db certmint.KVStore, conf *Configuration) error {
	return gconf.Save(db, "token", conf)
}
