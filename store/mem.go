package store

import (
	"github.com/certmint/certmint"
)

// MemStore returns an in-memory implementation of a cacheable
// key-value store. Used mainly for testing and as the backing store
// behind cache wraps in process-local deployments.
func MemStore() certmint.CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e)
}

// EmptyKVStore is a store that contains nothing and
// swallows all writes.
type EmptyKVStore struct{}

var _ certmint.KVStore = EmptyKVStore{}

// Get always returns nil.
func (e EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }

// Has always returns false.
func (e EmptyKVStore) Has(key []byte) (bool, error) { return false, nil }

// Set ignores the write.
func (e EmptyKVStore) Set(key, value []byte) error { return nil }

// Delete ignores the write.
func (e EmptyKVStore) Delete(key []byte) error { return nil }
