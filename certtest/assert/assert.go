// Package assert provides minimal assertions for tests, paired with
// the error kind testing of the errors package.
package assert

import (
	"reflect"
	"testing"

	"github.com/certmint/certmint/errors"
)

// Nil fails the test if the value is not nil.
func Nil(t testing.TB, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %+v", value)
	}
}

// Equal fails the test if the two values are not deep equal.
func Equal(t testing.TB, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant: %+v\n got: %+v", want, got)
	}
}

// IsErr fails the test if the error is not of the wanted kind. Kind
// test is done using the errors package Is semantics, unwrapping the
// cause chain.
func IsErr(t testing.TB, want *errors.Error, err error) {
	t.Helper()
	if !want.Is(err) {
		t.Fatalf("want %q error, got %+v", want, err)
	}
}

// FieldError fails the test if the error does not contain exactly one
// error for the given field, of the wanted kind. Pass nil as want to
// require no error for the field.
func FieldError(t testing.TB, err error, fieldName string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, fieldName)
	if want == nil {
		if len(errs) != 0 {
			t.Fatalf("want no %q field errors, got %v", fieldName, errs)
		}
		return
	}
	if len(errs) != 1 {
		t.Fatalf("want one %q field error, got %d: %v", fieldName, len(errs), errs)
	}
	if !want.Is(errs[0]) {
		t.Fatalf("want %q error for field %q, got %+v", want, fieldName, errs[0])
	}
}

// Panics fails the test if calling the function does not panic.
func Panics(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if recover() == nil {
			t.Fatal("wanted a panic")
		}
	}()
	fn()
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}
