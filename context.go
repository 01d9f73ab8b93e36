package certmint

import (
	"context"
	"time"

	"github.com/certmint/certmint/errors"
	"github.com/go-kit/kit/log"
)

// Context is just a request-scoped context.Context where we package
// extra information, such as the block time and a logger.
type Context = context.Context

type contextKey int

const (
	contextKeyBlockTime contextKey = iota
	contextKeyLogger
)

// DefaultLogger is used for all contexts that have not set anything
// themselves.
var DefaultLogger = log.NewNopLogger()

// WithBlockTime sets the block time for the Context. The time the
// current operation executes at is external input, never read from a
// wall clock.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyBlockTime, t.UTC())
}

// BlockTime returns the block time as declared in the context.
func BlockTime(ctx Context) (time.Time, error) {
	val, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrState, "block time not present in the context")
	}
	if val.IsZero() {
		return val, errors.Wrap(errors.ErrState, "zero block time in the context")
	}
	return val, nil
}

// WithLogger sets the logger this context uses.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger from the context, or DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}
