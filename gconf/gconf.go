/*
Package gconf provides a storage for per-engine configuration
singletons.

Each engine keeps exactly one configuration entity in the database,
stored under a key derived from the package name. Configuration updates
go through the owning engine's update message handler, which is how the
update authority is enforced.
*/
package gconf

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
)

// Configuration is implemented by an engine configuration entity.
type Configuration interface {
	certmint.Persistent

	Validate() error
}

func dbKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save stores the given configuration entity as the singleton of the
// given package. The configuration is validated before being stored.
func Save(db certmint.KVStore, pkg string, src Configuration) error {
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "configuration is invalid")
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal configuration")
	}
	return db.Set(dbKey(pkg), raw)
}

// Load copies the configuration stored for the given package into dst.
// ErrNotFound is returned if no configuration was initialized.
func Load(db certmint.ReadOnlyKVStore, pkg string, dst Configuration) error {
	raw, err := db.Get(dbKey(pkg))
	if err != nil {
		return errors.Wrap(err, "cannot load configuration")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%q configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrap(err, "cannot unmarshal configuration")
	}
	return nil
}

// InitConfig is a utility function for engine initializers. It loads
// the configuration declared under the "conf" -> pkg path of the
// genesis options and stores it as the package singleton.
func InitConfig(db certmint.KVStore, opts certmint.Options, pkg string, conf Configuration) error {
	var confOpts certmint.Options
	if err := opts.ReadOptions("conf", &confOpts); err != nil {
		return errors.Wrap(err, "cannot load conf options")
	}
	raw, ok := confOpts[pkg]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "no %q configuration", pkg)
	}
	if err := json.Unmarshal(raw, conf); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %q configuration", pkg)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "cannot save %q configuration", pkg)
	}
	return nil
}
