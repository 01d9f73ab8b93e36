package market

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/gconf"
)

// Configuration is the market engine singleton.
type Configuration struct {
	// Authority is the only address allowed to change this
	// configuration.
	Authority certmint.Address `json:"authority"`
	// Collector receives the platform fee cut of every sale.
	Collector certmint.Address `json:"collector"`
	// FeeBps is the platform fee in basis points, at most 1000.
	FeeBps uint32 `json:"fee_bps"`
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
	if c.FeeBps > maxFeeBps {
		errs = errors.AppendField(errs, "FeeBps", ErrFeeTooHigh)
	}
	return errs
}

func loadConf(db certmint.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "market", &conf); err != nil {
		return nil, errors.Wrap(err, "cannot load configuration")
	}
	return &conf, nil
}

func saveConf(db certmint.KVStore, conf *Configuration) error {
	return gconf.Save(db, "market", conf)
}
