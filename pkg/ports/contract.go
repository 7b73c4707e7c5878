package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/routes64/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSaveStoreContract runs a suite of tests to verify that a SaveStore implementation
// adheres to the defined interface contract.
func RunSaveStoreContract(t *testing.T, store SaveStore) {
	ctx := context.Background()
	slot := "contract-" + time.Now().Format("20060102150405.000000")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState().Advance("R1").Advance("R10")
		record := domain.RecordFromState(state)

		err := store.Save(ctx, slot, record)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, slot)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, record, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		first := domain.RecordFromState(domain.NewState().Advance("R0"))
		second := domain.RecordFromState(domain.NewState().Advance("R1"))

		require.NoError(t, store.Save(ctx, slot, first))
		require.NoError(t, store.Save(ctx, slot, second))

		loaded, err := store.Load(ctx, slot)
		require.NoError(t, err)
		assert.Equal(t, "R1", loaded.Current)
	})

	t.Run("Foreign Version Is Returned As Is", func(t *testing.T) {
		record := domain.SaveRecord{SchemaVersion: 255, Current: "R", Depth: 0, Trail: []string{"R"}}
		require.NoError(t, store.Save(ctx, slot, record))

		loaded, err := store.Load(ctx, slot)
		require.NoError(t, err)
		assert.Equal(t, 255, loaded.SchemaVersion)
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := store.Exists(ctx, slot)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Exists(ctx, "missing-"+slot)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+slot)
		assert.ErrorIs(t, err, domain.ErrSaveNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, slot, domain.RecordFromState(domain.NewState())))

		err := store.Delete(ctx, slot)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, slot)
		assert.ErrorIs(t, err, domain.ErrSaveNotFound, "Load after Delete should return ErrSaveNotFound")

		ok, err := store.Exists(ctx, slot)
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, store.Delete(ctx, slot), "Delete of an empty slot should be idempotent")
	})

	if lister, ok := store.(SlotLister); ok {
		t.Run("List", func(t *testing.T) {
			id1 := slot + "-1"
			id2 := slot + "-2"
			_ = store.Save(ctx, id1, domain.RecordFromState(domain.NewState()))
			_ = store.Save(ctx, id2, domain.RecordFromState(domain.NewState()))
			defer func() {
				_ = store.Delete(ctx, id1)
				_ = store.Delete(ctx, id2)
			}()

			slots, err := lister.List(ctx)
			require.NoError(t, err)
			assert.Contains(t, slots, id1)
			assert.Contains(t, slots, id2)
		})
	}
}
