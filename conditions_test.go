package certmint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/certmint/certmint/errors"
)

func TestConditionParse(t *testing.T) {
	cond := NewCondition("market", "escrow", []byte{1, 2, 3})
	ext, typ, data, err := cond.Parse()
	assert.NoError(t, err)
	assert.Equal(t, "market", ext)
	assert.Equal(t, "escrow", typ)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestConditionParseInvalid(t *testing.T) {
	cases := map[string]Condition{
		"empty":           {},
		"no separators":   Condition("foobar"),
		"short extension": Condition("ab/escrow/data"),
		"missing data":    Condition("market/escrow/"),
	}
	for testName, cond := range cases {
		t.Run(testName, func(t *testing.T) {
			_, _, _, err := cond.Parse()
			if !errors.ErrInput.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if cond.Validate() == nil {
				t.Fatal("want a validation error")
			}
		})
	}
}

func TestConditionAddressDeterminism(t *testing.T) {
	a := NewCondition("market", "escrow", []byte("key")).Address()
	b := NewCondition("market", "escrow", []byte("key")).Address()
	assert.True(t, a.Equals(b), "same condition must derive the same address")

	c := NewCondition("market", "escrow", []byte("other")).Address()
	assert.False(t, a.Equals(c), "different data must derive a different address")

	d := NewCondition("token", "escrow", []byte("key")).Address()
	assert.False(t, a.Equals(d), "different extension must derive a different address")
}

func TestAddressLength(t *testing.T) {
	addr := NewCondition("test", "cond", []byte("x")).Address()
	assert.NoError(t, addr.Validate())
	assert.Len(t, []byte(addr), AddressLength)

	assert.Error(t, Address([]byte("too short")).Validate())
	assert.Error(t, Address(nil).Validate())
}

func TestAddressJSONRoundTrip(t *testing.T) {
	addr := NewCondition("test", "cond", []byte("x")).Address()

	raw, err := json.Marshal(addr)
	assert.NoError(t, err)

	var got Address
	assert.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, addr.Equals(got))
}

func TestAddressJSONEmpty(t *testing.T) {
	var got Address
	if err := json.Unmarshal([]byte(`""`), &got); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if got != nil {
		t.Fatalf("want nil address, got %v", got)
	}
}
