package registry

import (
	"bytes"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"plain":            {"US1234567A", "US1234567A"},
		"lowercase":        {"us1234567a", "US1234567A"},
		"dashes":           {"us-1234567-a", "US1234567A"},
		"whitespace":       {" US 1234567\tA ", "US1234567A"},
		"mixed formatting": {"uS-12 34567a", "US1234567A"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCanonicalKeyCollision(t *testing.T) {
	// Identifiers that differ only in formatting must share a key.
	a := CanonicalKey("US1234567A")
	b := CanonicalKey("us-1234567a")
	if !bytes.Equal(a, b) {
		t.Fatal("equivalent identifiers must map to the same key")
	}

	c := CanonicalKey("US1234567B")
	if bytes.Equal(a, c) {
		t.Fatal("distinct identifiers must map to distinct keys")
	}
}

func TestIssueMsgValidate(t *testing.T) {
	valid := IssueMsg{
		Identifier: "US1234567A",
		Name:       "Widget Patent",
		Symbol:     "WDGT",
		URI:        "https://example.com/meta/1",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}

	cases := map[string]IssueMsg{
		"empty identifier":      {Identifier: "", Name: "n", Symbol: "s", URI: "u"},
		"identifier too long":   {Identifier: long(51), Name: "n", Symbol: "s", URI: "u"},
		"identifier normalizes": {Identifier: " - ", Name: "n", Symbol: "s", URI: "u"},
		"name too long":         {Identifier: "US1A", Name: long(33), Symbol: "s", URI: "u"},
		"symbol too long":       {Identifier: "US1A", Name: "n", Symbol: long(11), URI: "u"},
		"uri too long":          {Identifier: "US1A", Name: "n", Symbol: "s", URI: long(201)},
		"empty uri":             {Identifier: "US1A", Name: "n", Symbol: "s", URI: ""},
	}
	for testName, msg := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := msg.Validate(); err == nil {
				t.Fatal("want an error")
			}
		})
	}
}
