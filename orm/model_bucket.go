package orm

import (
	"regexp"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
)

// isBucketName ensures a bucket name is lowercase and short, so that
// key prefixes stay readable and cannot collide with sequence or
// configuration namespaces.
var isBucketName = regexp.MustCompile(`^[a-z]{1,8}$`).MatchString

// ModelBucket is a storage engine for a single model type. All keys it
// operates on are automatically prefixed with the bucket name, so that
// many buckets can share a single key-value store.
type ModelBucket interface {
	// One queries the database for a single model instance. Lookup is
	// done by the primary index key. Result is loaded into given
	// destination model.
	// This method returns ErrNotFound if the entity does not exist in
	// the database.
	One(db certmint.ReadOnlyKVStore, key []byte, dest Model) error

	// Put saves given model in the database under the given key. Model
	// is validated before being stored.
	Put(db certmint.KVStore, key []byte, m Model) error

	// Delete removes an entity with the given primary key. It returns
	// ErrNotFound if an entity with the given key does not exist.
	Delete(db certmint.KVStore, key []byte) error

	// Has returns nil if an entity with the given primary key exists,
	// and ErrNotFound if it does not.
	Has(db certmint.ReadOnlyKVStore, key []byte) error

	// DBKey returns the full storage key of an entity, that is the
	// primary key prefixed with the bucket name.
	DBKey(key []byte) []byte
}

// NewModelBucket returns a ModelBucket instance storing entities under
// keys prefixed with the given bucket name.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic(errors.Wrapf(ErrBucketName, "%q", name))
	}
	return &modelBucket{prefix: []byte(name + ":")}
}

type modelBucket struct {
	prefix []byte
}

var _ ModelBucket = (*modelBucket)(nil)

func (b *modelBucket) One(db certmint.ReadOnlyKVStore, key []byte, dest Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot fetch entity")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal into %T", dest)
	}
	return nil
}

func (b *modelBucket) Put(db certmint.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %T", m)
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store entity")
	}
	return nil
}

func (b *modelBucket) Delete(db certmint.KVStore, key []byte) error {
	if err := b.Has(db, key); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b *modelBucket) Has(db certmint.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	return nil
}

func (b *modelBucket) DBKey(key []byte) []byte {
	return append(append([]byte{}, b.prefix...), key...)
}
