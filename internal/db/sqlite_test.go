package db

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T, threshold int) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(t.TempDir(), threshold)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenSQLiteStore_EmptyDir(t *testing.T) {
	_, err := OpenSQLiteStore("", 0)
	assert.Error(t, err)
}

func TestSQLiteStore_LoadSaveDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t, 64)

	t.Run("missing widget", func(t *testing.T) {
		payload, found, err := store.Load(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, payload)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "w1", `{"primaryKey":"A"}`))

		payload, found, err := store.Load(ctx, "w1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"primaryKey":"A"}`, payload)
	})

	t.Run("save overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "w1", `{"primaryKey":"B"}`))

		payload, _, err := store.Load(ctx, "w1")
		require.NoError(t, err)
		assert.Equal(t, `{"primaryKey":"B"}`, payload)
	})

	t.Run("compressed payload round trips", func(t *testing.T) {
		large := strings.Repeat(`{"name":"c","type":"string"}`, 50)
		require.NoError(t, store.Save(ctx, "w2", large))

		payload, found, err := store.Load(ctx, "w2")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, large, payload)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "w1"))

		_, found, err := store.Load(ctx, "w1")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete missing", func(t *testing.T) {
		err := store.Delete(ctx, "w1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := OpenSQLiteStore(dir, 0)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "w1", `{"primaryKey":"A"}`))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(dir, 0)
	require.NoError(t, err)
	defer reopened.Close()

	payload, found, err := reopened.Load(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"primaryKey":"A"}`, payload)
}
