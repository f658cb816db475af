package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/formbind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFormStoreContract runs a suite of tests to verify that a FormStore implementation
// adheres to the defined interface contract.
func RunFormStoreContract(t *testing.T, store FormStore) {
	ctx := context.Background()
	id := "contract-test-form-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		f := formbind.New(map[string]any{"foo": "bar"})
		require.NoError(t, store.Save(ctx, id, f))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Same(t, f, loaded)
		assert.Equal(t, "bar", loaded.Model().GetValue("foo", nil))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, ErrFormNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, formbind.New(nil)))
		require.NoError(t, store.Delete(ctx, id))

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, ErrFormNotFound, "Load after Delete should return ErrFormNotFound")
		assert.NoError(t, store.Delete(ctx, id), "Delete of a missing id")
	})

	t.Run("List", func(t *testing.T) {
		id1, id2 := id+"-1", id+"-2"
		require.NoError(t, store.Save(ctx, id1, formbind.New(nil)))
		require.NoError(t, store.Save(ctx, id2, formbind.New(nil)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
