package pebble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainward/chainward/pkg/db"
)

func TestKVStore(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store db.KVStore)
	}{
		{
			name: "basic_put_get",
			fn:   testBasicPutGet,
		},
		{
			name: "delete_operations",
			fn:   testDelete,
		},
		{
			name: "store_closure",
			fn:   testStoreClosure,
		},
		{
			name: "iterator_range",
			fn:   testIteratorRange,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := NewMemKVStore()
			require.NoError(t, err)
			defer store.Close()

			tc.fn(t, store)
		})
	}
}

func testBasicPutGet(t *testing.T, store db.KVStore) {
	key := []byte("test-key")
	value := []byte("test-value")

	err := store.Put(key, value)
	require.NoError(t, err)

	retrieved, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, retrieved)

	_, err = store.Get([]byte("non-existent"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func testDelete(t *testing.T, store db.KVStore) {
	key := []byte("delete-test")
	value := []byte("to-be-deleted")

	err := store.Put(key, value)
	require.NoError(t, err)

	err = store.Delete(key)
	require.NoError(t, err)

	_, err = store.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testStoreClosure(t *testing.T, store db.KVStore) {
	err := store.Close()
	require.NoError(t, err)

	err = store.Put([]byte("k"), []byte("v"))
	assert.ErrorIs(t, err, ErrClosed)

	_, err = store.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrClosed)

	// Closing twice is a no-op.
	err = store.Close()
	require.NoError(t, err)
}

func testIteratorRange(t *testing.T, store db.KVStore) {
	require.NoError(t, store.Put([]byte{1, 1}, []byte("a")))
	require.NoError(t, store.Put([]byte{1, 2}, []byte("b")))
	require.NoError(t, store.Put([]byte{2, 1}, []byte("c")))

	iter, err := store.NewIterator([]byte{1}, []byte{2})
	require.NoError(t, err)
	defer iter.Close()

	var values []string
	for iter.Next() {
		v, err := iter.Value()
		require.NoError(t, err)
		values = append(values, string(v))
	}
	assert.Equal(t, []string{"a", "b"}, values)
}

func TestBatch(t *testing.T) {
	store, err := NewMemKVStore()
	require.NoError(t, err)
	defer store.Close()

	batch := store.NewBatch()
	defer batch.Close()

	keys := [][]byte{[]byte("key1"), []byte("key2"), []byte("key3")}
	values := [][]byte{[]byte("value1"), []byte("value2"), []byte("value3")}

	for i := range keys {
		err := batch.Put(keys[i], values[i])
		require.NoError(t, err)
	}

	// Nothing is visible before commit.
	_, err = store.Get(keys[0])
	assert.ErrorIs(t, err, ErrNotFound)

	err = batch.Commit()
	require.NoError(t, err)

	for i := range keys {
		v, err := store.Get(keys[i])
		require.NoError(t, err)
		assert.Equal(t, values[i], v)
	}

	// A committed batch refuses further writes.
	err = batch.Put([]byte("late"), []byte("write"))
	assert.ErrorIs(t, err, ErrBatchDone)
	err = batch.Commit()
	assert.ErrorIs(t, err, ErrBatchDone)
}
