package registry

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/gconf"
)

// Configuration is the registry engine singleton.
type Configuration struct {
	// Authority is the only address allowed to run administrative
	// operations.
	Authority certmint.Address `json:"authority"`
	// Collector receives issuance fees.
	Collector certmint.Address `json:"collector"`
	// IssuancePrice is the fee charged for every non-admin issuance. A
	// zero amount disables the fee.
	IssuancePrice coin.Coin `json:"issuance_price"`
	// MinimumReserve is the balance that must remain with the collector
	// after any withdrawal.
	MinimumReserve coin.Coin `json:"minimum_reserve"`
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
	errs = errors.AppendField(errs, "Collector", c.Collector.Validate())
	if !c.IssuancePrice.IsZero() {
		errs = errors.AppendField(errs, "IssuancePrice", c.IssuancePrice.Validate())
	}
	if !c.IssuancePrice.IsNonNegative() {
		errs = errors.AppendField(errs, "IssuancePrice", errors.ErrAmount)
	}
	if !c.MinimumReserve.IsZero() {
		errs = errors.AppendField(errs, "MinimumReserve", c.MinimumReserve.Validate())
	}
	if !c.MinimumReserve.IsNonNegative() {
		errs = errors.AppendField(errs, "MinimumReserve", errors.ErrAmount)
	}
	return errs
}

func loadConf(db certmint.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "registry", &conf); err != nil {
		return nil, errors.Wrap(err, "cannot load configuration")
	}
	return &conf, nil
}

func saveConf(db certmint.KVStore, conf *Configuration) error {
	return gconf.Save(db, "registry", conf)
}
