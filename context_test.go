package certmint

import (
	"context"
	"testing"
	"time"

	"github.com/certmint/certmint/errors"
)

func TestBlockTime(t *testing.T) {
	now := time.Date(2021, 3, 4, 5, 6, 7, 0, time.FixedZone("x", 3600))
	ctx := WithBlockTime(context.Background(), now)

	got, err := BlockTime(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if got.Location() != time.UTC {
		t.Fatalf("block time must be normalized to UTC, got %v", got.Location())
	}
	if !got.Equal(now) {
		t.Fatalf("want %v, got %v", now, got)
	}
}

func TestBlockTimeMissing(t *testing.T) {
	if _, err := BlockTime(context.Background()); !errors.ErrState.Is(err) {
		t.Fatalf("want ErrState, got %+v", err)
	}
}

func TestBlockTimeZero(t *testing.T) {
	ctx := WithBlockTime(context.Background(), time.Time{})
	if _, err := BlockTime(ctx); !errors.ErrState.Is(err) {
		t.Fatalf("want ErrState, got %+v", err)
	}
}

func TestGetLoggerFallback(t *testing.T) {
	if logger := GetLogger(context.Background()); logger == nil {
		t.Fatal("want the default logger, got nil")
	}
}
