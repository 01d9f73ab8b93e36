package payment

import (
	"github.com/certmint/certmint"
	"github.com/certmint/certmint/gconf"
)

// Initializer fulfils the certmint.Initializer interface to load the
// engine configuration from the genesis options.
type Initializer struct{}

var _ certmint.Initializer = Initializer{}

// FromGenesis initializes the payment configuration.
func (Initializer) FromGenesis(opts certmint.Options, db certmint.KVStore) error {
	return gconf.InitConfig(db, opts, "payment", &Configuration{})
}
