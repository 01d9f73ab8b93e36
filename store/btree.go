package store

import (
	"bytes"

	"github.com/google/btree"

	"github.com/certmint/certmint"
)

const defaultBTreeDegree = 32

// BTreeCacheWrap places a btree cache over a parent store. All reads
// consult the cache first and fall through to the parent. All writes
// are buffered in the cache until Write copies them to the parent, or
// Discard drops them.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	back  certmint.ReadOnlyKVStore
	write certmint.KVStore
}

var _ certmint.KVCacheWrap = BTreeCacheWrap{}
var _ certmint.CacheableKVStore = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a cache over the given parent. Write
// may be nil, in which case calling Write on the wrap panics. This is
// used for check contexts that must never commit.
func NewBTreeCacheWrap(read certmint.ReadOnlyKVStore, write certmint.KVStore) BTreeCacheWrap {
	return BTreeCacheWrap{
		bt:    btree.New(defaultBTreeDegree),
		back:  read,
		write: write,
	}
}

// CacheWrap layers another cache on top of this one. All writes to the
// returned wrap are buffered independently until its Write call.
func (b BTreeCacheWrap) CacheWrap() certmint.KVCacheWrap {
	return NewBTreeCacheWrap(b, b)
}

// Write syncs the cached writes to the parent store and invalidates the
// cache.
func (b BTreeCacheWrap) Write() error {
	if b.write == nil {
		panic("write-protected cache wrap")
	}
	var err error
	b.bt.Ascend(func(item btree.Item) bool {
		switch t := item.(type) {
		case setItem:
			err = b.write.Set(t.key, t.value)
		case deletedItem:
			err = b.write.Delete(t.key)
		}
		return err == nil
	})
	b.Discard()
	return err
}

// Discard invalidates the cache without writing anything to the parent.
func (b BTreeCacheWrap) Discard() {
	b.bt.Clear(false)
}

// Set buffers the value in the cache.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(newSetItem(key, value))
	return nil
}

// Delete buffers the removal in the cache.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(newDeletedItem(key))
	return nil
}

// Get reads from the cache, falling through to the parent store.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	switch t := b.bt.Get(bkey{key}).(type) {
	case setItem:
		return t.value, nil
	case deletedItem:
		return nil, nil
	}
	return b.back.Get(key)
}

// Has reads from the cache, falling through to the parent store.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	switch b.bt.Get(bkey{key}).(type) {
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	}
	return b.back.Has(key)
}

// bkey is a lookup key with no associated operation.
type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

// Less sorts items by key. The operation attached to a key does not
// matter, there is at most one buffered operation per key.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

// Key returns the lookup key of the item.
func (k bkey) Key() []byte {
	return k.key
}

// keyer is an interface for all items to look up the key.
type keyer interface {
	Key() []byte
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey{key}, value}
}

type deletedItem struct {
	bkey
}

func newDeletedItem(key []byte) deletedItem {
	return deletedItem{bkey{key}}
}
