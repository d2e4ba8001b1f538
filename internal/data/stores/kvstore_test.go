package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		store := NewKVStore(openTestDB(t))

		require.NoError(t, store.Set(ctx, "tui:expanded", []int{1, 3}))

		var got []int
		require.NoError(t, store.Get(ctx, "tui:expanded", &got))
		assert.Equal(t, []int{1, 3}, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		store := NewKVStore(openTestDB(t))

		require.NoError(t, store.Set(ctx, "k", "one"))
		require.NoError(t, store.Set(ctx, "k", "two"))

		var got string
		require.NoError(t, store.Get(ctx, "k", &got))
		assert.Equal(t, "two", got)
	})

	t.Run("missing key", func(t *testing.T) {
		store := NewKVStore(openTestDB(t))

		var got string
		err := store.Get(ctx, "missing", &got)
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("delete and list", func(t *testing.T) {
		store := NewKVStore(openTestDB(t))

		require.NoError(t, store.Set(ctx, "b", 2))
		require.NoError(t, store.Set(ctx, "a", 1))

		keys, err := store.ListKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, keys)

		require.NoError(t, store.Delete(ctx, "a"))
		require.NoError(t, store.Delete(ctx, "a"))

		keys, err = store.ListKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, keys)
	})
}
