package payment

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/gconf"
)

// Configuration is the payment engine singleton.
type Configuration struct {
	// Authority is the only address allowed to run administrative
	// operations.
	Authority certmint.Address `json:"authority"`
	// Treasury receives all payments.
	Treasury certmint.Address `json:"treasury"`
	// Prices maps a currency ticker to the service price in that
	// currency. Currencies without an entry are not accepted.
	Prices map[string]int64 `json:"prices"`
	// CreditsPerPayment is the number of service credits granted for
	// each payment, regardless of currency.
	CreditsPerPayment int64 `json:"credits_per_payment"`
	// MinimumReserve is the balance that must remain with the treasury
	// after any withdrawal.
	MinimumReserve coin.Coin `json:"minimum_reserve"`
	// Paused halts payments. Administrative operations stay available.
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
	errs = errors.AppendField(errs, "Treasury", c.Treasury.Validate())
	for ticker, price := range c.Prices {
		if !coin.IsCC(ticker) {
			errs = errors.AppendField(errs, "Prices", errors.Wrapf(errors.ErrCurrency, "%q", ticker))
		}
		if price < 1 {
			errs = errors.AppendField(errs, "Prices", errors.Wrapf(errors.ErrAmount, "%q price", ticker))
		}
	}
	if c.CreditsPerPayment < 0 {
		errs = errors.AppendField(errs, "CreditsPerPayment", errors.ErrAmount)
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
	if err := gconf.Load(db, "payment", &conf); err != nil {
		return nil, errors.Wrap(err, "cannot load configuration")
	}
	return &conf, nil
}

func saveConf(db certmint.KVStore, conf *Configuration) error {
	return gconf.Save(db, "payment", conf)
}
