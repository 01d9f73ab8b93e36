package orm

import (
	"encoding/json"
	"testing"

	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/store"
)

type counter struct {
	Count int64 `json:"count"`
}

func (c *counter) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *counter) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	if err := b.Put(db, []byte("a"), &counter{Count: 5}); err != nil {
		t.Fatalf("put: %+v", err)
	}

	var got counter
	if err := b.One(db, []byte("a"), &got); err != nil {
		t.Fatalf("one: %+v", err)
	}
	if got.Count != 5 {
		t.Fatalf("unexpected value: %d", got.Count)
	}
}

func TestModelBucketMissing(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	var got counter
	if err := b.One(db, []byte("missing"), &got); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
	if err := b.Has(db, []byte("missing")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
	if err := b.Delete(db, []byte("missing")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

func TestModelBucketValidatesOnPut(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	if err := b.Put(db, []byte("a"), &counter{Count: -1}); !errors.ErrModel.Is(err) {
		t.Fatalf("want model error, got %+v", err)
	}
	if err := b.Has(db, []byte("a")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("invalid model must not be stored: %+v", err)
	}
}

func TestModelBucketDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	if err := b.Put(db, []byte("a"), &counter{Count: 1}); err != nil {
		t.Fatalf("put: %+v", err)
	}
	if err := b.Delete(db, []byte("a")); err != nil {
		t.Fatalf("delete: %+v", err)
	}
	if err := b.Has(db, []byte("a")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}
}

func TestModelBucketsAreIsolated(t *testing.T) {
	db := store.MemStore()
	a := NewModelBucket("aaa")
	b := NewModelBucket("bbb")

	if err := a.Put(db, []byte("k"), &counter{Count: 1}); err != nil {
		t.Fatalf("put: %+v", err)
	}
	if err := b.Has(db, []byte("k")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("buckets must not share keys: %+v", err)
	}
}

func TestModelBucketRejectsBadName(t *testing.T) {
	for _, name := range []string{"", "UPPER", "with space", "waytoolongname"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("bucket name %q must panic", name)
				}
			}()
			NewModelBucket(name)
		}()
	}
}
