/*
Package app wires the engines together behind an atomic execution
layer.

Every transaction runs over a store savepoint. A successful delivery
writes the savepoint to the backing store, any error discards it, so a
message either applies completely or not at all. Panics inside a
handler are recovered and reported as errors, they never corrupt the
store.
*/
package app

import (
	"github.com/go-kit/kit/log"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
)

// App executes transactions against a store through a router.
type App struct {
	db     certmint.CacheableKVStore
	router *Router
	logger log.Logger
}

// New returns an application executing over the given store.
func New(db certmint.CacheableKVStore, router *Router, logger log.Logger) *App {
	if logger == nil {
		logger = certmint.DefaultLogger
	}
	return &App{
		db:     db,
		router: router,
		logger: logger,
	}
}

// CheckTx validates a transaction without changing any persistent
// state. All writes performed during the check are dropped.
func (a *App) CheckTx(ctx certmint.Context, tx certmint.Tx) (res *certmint.CheckResult, err error) {
	defer errors.Recover(&err)

	cache := a.db.CacheWrap()
	defer cache.Discard()

	res, err = a.router.Check(ctx, cache, tx)
	a.logTx("check", tx, err)
	return res, err
}

// DeliverTx executes a transaction. State changes are written to the
// backing store only on success. Any error, including a panic inside a
// handler, discards all changes.
func (a *App) DeliverTx(ctx certmint.Context, tx certmint.Tx) (res *certmint.DeliverResult, err error) {
	defer errors.Recover(&err)

	cache := a.db.CacheWrap()
	res, err = a.router.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
	} else {
		err = cache.Write()
	}
	a.logTx("deliver", tx, err)
	return res, err
}

// InitGenesis runs all initializers against the given genesis options.
// Used once, on an empty store.
func (a *App) InitGenesis(opts certmint.Options, inits ...certmint.Initializer) error {
	for _, init := range inits {
		if err := init.FromGenesis(opts, a.db); err != nil {
			return errors.Wrapf(err, "initializer %T", init)
		}
	}
	return nil
}

func (a *App) logTx(phase string, tx certmint.Tx, err error) {
	path := "?"
	if msg, merr := tx.GetMsg(); merr == nil && msg != nil {
		path = msg.Path()
	}
	a.logger.Log("phase", phase, "path", path, "err", err)
}
