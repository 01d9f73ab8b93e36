package certtest

import (
	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
)

// Dispatcher is a minimal certmint.Registry implementation for tests.
// It routes messages straight to the registered handler, without the
// atomic cache-wrap layer of the application router.
type Dispatcher struct {
	handlers map[string]certmint.Handler
}

var _ certmint.Registry = (*Dispatcher)(nil)

func (d *Dispatcher) Handle(m certmint.Msg, h certmint.Handler) {
	if d.handlers == nil {
		d.handlers = make(map[string]certmint.Handler)
	}
	path := m.Path()
	if _, ok := d.handlers[path]; ok {
		panic("duplicate handler for " + path)
	}
	d.handlers[path] = h
}

// Deliver executes the message with the handler registered for its
// path.
func (d *Dispatcher) Deliver(ctx certmint.Context, db certmint.KVStore, msg certmint.Msg) (*certmint.DeliverResult, error) {
	h, ok := d.handlers[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", msg.Path())
	}
	return h.Deliver(ctx, db, &Tx{Msg: msg})
}

// Check validates the message with the handler registered for its
// path.
func (d *Dispatcher) Check(ctx certmint.Context, db certmint.KVStore, msg certmint.Msg) (*certmint.CheckResult, error) {
	h, ok := d.handlers[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", msg.Path())
	}
	return h.Check(ctx, db, &Tx{Msg: msg})
}
