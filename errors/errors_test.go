package errors

import (
	"fmt"
	"testing"
)

func TestRegisterDuplicateCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering an already used code must panic")
		}
	}()
	Register(2, "duplicate of not found")
}

func TestCause(t *testing.T) {
	std := fmt.Errorf("stdlib")

	cases := map[string]struct {
		err       error
		root      *Error
		wantMatch bool
	}{
		"registered error is its own cause": {
			err:       ErrNotFound,
			root:      ErrNotFound,
			wantMatch: true,
		},
		"wrap keeps the cause": {
			err:       Wrap(ErrNotFound, "miss"),
			root:      ErrNotFound,
			wantMatch: true,
		},
		"deep wrap keeps the cause": {
			err:       Wrap(Wrap(Wrap(ErrAmount, "a"), "b"), "c"),
			root:      ErrAmount,
			wantMatch: true,
		},
		"different root does not match": {
			err:       Wrap(ErrNotFound, "miss"),
			root:      ErrAmount,
			wantMatch: false,
		},
		"stdlib error does not match": {
			err:       std,
			root:      ErrNotFound,
			wantMatch: false,
		},
		"nil matches nil kind": {
			err:       nil,
			root:      nil,
			wantMatch: true,
		},
		"nil does not match a kind": {
			err:       nil,
			root:      ErrNotFound,
			wantMatch: false,
		},
		"multi error matches any member": {
			err:       Append(std, Wrap(ErrOverflow, "spill")),
			root:      ErrOverflow,
			wantMatch: true,
		},
		"multi error with no member match": {
			err:       Append(std, Wrap(ErrOverflow, "spill")),
			root:      ErrCurrency,
			wantMatch: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.root.Is(tc.err); got != tc.wantMatch {
				t.Fatalf("want match=%v, got %v", tc.wantMatch, got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "whatever"); err != nil {
		t.Fatalf("wrapping nil must return nil, got %+v", err)
	}
	if err := Wrapf(nil, "whatever %d", 42); err != nil {
		t.Fatalf("wrapping nil must return nil, got %+v", err)
	}
}

func TestWrapMessage(t *testing.T) {
	err := Wrap(ErrNotFound, "certificate")
	const want = "certificate: not found"
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestStackTraceAttachedOnce(t *testing.T) {
	inner := Wrap(ErrState, "inner")
	outer := Wrap(inner, "outer")

	st := stackTrace(outer)
	if st == nil {
		t.Fatal("want a stack trace attached")
	}
	// The outer wrap must reuse the trace captured by the inner one.
	if _, ok := outer.(stackTracer); ok {
		t.Fatal("outer wrap must not carry its own stack trace")
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("pow")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want an ErrPanic, got %+v", err)
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("appending only nils must return nil, got %+v", err)
	}

	err := Append(
		nil,
		Wrap(ErrAmount, "first"),
		Append(Wrap(ErrCurrency, "second"), nil),
	)
	u, ok := err.(unpacker)
	if !ok {
		t.Fatalf("want an unpacker, got %T", err)
	}
	if n := len(u.Unpack()); n != 2 {
		t.Fatalf("want 2 flattened errors, got %d", n)
	}
	if !ErrAmount.Is(err) || !ErrCurrency.Is(err) {
		t.Fatalf("want both causes matched: %+v", err)
	}
}

func TestFieldErrors(t *testing.T) {
	var err error
	err = AppendField(err, "Name", ErrEmpty)
	err = AppendField(err, "Amount", Wrap(ErrAmount, "negative"))
	err = AppendField(err, "Amount", ErrCurrency)

	if got := FieldErrors(err, "Name"); len(got) != 1 {
		t.Fatalf("want one Name error, got %d", len(got))
	}
	if got := FieldErrors(err, "Amount"); len(got) != 2 {
		t.Fatalf("want two Amount errors, got %d", len(got))
	}
	if got := FieldErrors(err, "Missing"); got != nil {
		t.Fatalf("want no Missing errors, got %v", got)
	}
	if got := FieldErrors(nil, "Name"); got != nil {
		t.Fatalf("want no errors for nil, got %v", got)
	}
}

func TestFieldNil(t *testing.T) {
	if err := Field("Name", nil, "whatever"); err != nil {
		t.Fatalf("a field error over nil must be nil, got %+v", err)
	}
	if err := AppendField(nil, "Name", nil); err != nil {
		t.Fatalf("appending a nil field error must keep nil, got %+v", err)
	}
}
