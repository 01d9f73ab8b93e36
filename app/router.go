package app

import (
	"regexp"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
)

// isPath ensures message paths are simple alphanumeric routes.
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and
// then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux.
type Router struct {
	routes map[string]certmint.Handler
}

var _ certmint.Registry = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]certmint.Handler),
	}
}

// Handle assigns the given handler to handle processing of every
// message of the provided type. Paths are registered exactly once,
// a duplicate is a programmer error.
func (r *Router) Handle(m certmint.Msg, h certmint.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic("invalid path: " + path)
	}
	if _, ok := r.routes[path]; ok {
		panic("re-registering route: " + path)
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path, or a
// noSuchPathHandler if none is registered.
func (r *Router) handler(m certmint.Msg) certmint.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return noSuchPathHandler{path: path}
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Deliver(ctx, db, tx)
}

type noSuchPathHandler struct {
	path string
}

var _ certmint.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(certmint.Context, certmint.KVStore, certmint.Tx) (*certmint.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", h.path)
}

func (h noSuchPathHandler) Deliver(certmint.Context, certmint.KVStore, certmint.Tx) (*certmint.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", h.path)
}
