// Package db defines the key-value storage contract the engine's record
// stores are built on. Keys carry a one-byte record-kind prefix (reporter,
// signal, dispute, reputation record, reputation event, reward pool) so a
// prefix range scan loads one kind at a time.
package db

// KVStore is the full store handle. Reads and single writes go through it
// directly; multi-record writes that must land together go through a Batch.
type KVStore interface {
	Writer
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	NewBatch() Batch
	NewIterator(start, end []byte) (Iterator, error)
	Close() error
}

type Writer interface {
	Put(key []byte, value []byte) error
}

// Batch collects writes and applies them atomically on Commit. A dispute
// settlement writes the dispute, its signal and the reporter in one batch
// so a reload never sees a torn settle.
type Batch interface {
	Writer
	Delete(key []byte) error
	Commit() error
	Close() error
}

// Iterator walks a key range in ascending key order, which for id-keyed
// records is insertion order. Iterators must be closed after use.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() ([]byte, error)
	Valid() bool
	Close() error
}
