package orm

import (
	"encoding/binary"
	"math"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
)

// Sequence maintains a strictly increasing int64 counter in the
// database. Counters saturate at the int64 maximum and any further
// increment fails, they never wrap around.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Name pair uniquely identifies
// the counter within the database.
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{id: []byte(id)}
}

// NextVal increments the sequence and returns its new value as a big
// endian encoded 8 byte key.
func (s *Sequence) NextVal(db certmint.KVStore) ([]byte, error) {
	_, raw, err := s.increment(db)
	return raw, err
}

// NextInt increments the sequence and returns its new value as an
// integer.
func (s *Sequence) NextInt(db certmint.KVStore) (int64, error) {
	val, _, err := s.increment(db)
	return val, err
}

// Latest returns the current counter value without incrementing it. A
// sequence that was never incremented returns zero.
func (s *Sequence) Latest(db certmint.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "cannot get sequence state")
	}
	if raw == nil {
		return 0, nil
	}
	return int64(binary.BigEndian.Uint64(raw)), nil
}

func (s *Sequence) increment(db certmint.KVStore) (int64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	if val == math.MaxInt64 {
		return 0, nil, errors.Wrapf(ErrSequenceOverflow, "%s", s.id)
	}
	val++
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(val))
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, errors.Wrap(err, "cannot persist sequence state")
	}
	return val, raw, nil
}
