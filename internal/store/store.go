// Package store persists the engine's records in a key-value store. Each
// record kind lives under its own byte prefix; signals, disputes and
// reputation events are append-only and are never compacted or rewritten.
package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/chainward/chainward/internal/principal"
	"github.com/chainward/chainward/pkg/db"
)

const (
	prefixReporter byte = iota + 1
	prefixSignal
	prefixDispute
	prefixReputation
	prefixReputationEvent
	prefixRewardPool
)

// Store is the persistent backing of the engine state.
type Store struct {
	db db.KVStore
}

func New(kv db.KVStore) *Store {
	return &Store{db: kv}
}

func makeIDKey(prefix byte, id uint64) []byte {
	key := make([]byte, 9)
	key[0] = prefix
	binary.BigEndian.PutUint64(key[1:], id)
	return key
}

func makePrincipalKey(prefix byte, p principal.Principal) []byte {
	key := make([]byte, 1+principal.Size)
	key[0] = prefix
	copy(key[1:], p[:])
	return key
}

func makeSymbolKey(prefix byte, symbol string) []byte {
	key := make([]byte, 1+len(symbol))
	key[0] = prefix
	copy(key[1:], symbol)
	return key
}

func marshalValue(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return raw, nil
}

func (s *Store) putJSON(key []byte, v any) error {
	raw, err := marshalValue(v)
	if err != nil {
		return err
	}
	if err := s.db.Put(key, raw); err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

// loadAll decodes every value under a prefix in key order.
func loadAll[T any](s *Store, prefix byte) ([]T, error) {
	iter, err := s.db.NewIterator([]byte{prefix}, []byte{prefix + 1})
	if err != nil {
		return nil, fmt.Errorf("create iterator: %w", err)
	}
	defer iter.Close()

	var out []T
	for iter.Next() {
		raw, err := iter.Value()
		if err != nil {
			return nil, fmt.Errorf("read value: %w", err)
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}
