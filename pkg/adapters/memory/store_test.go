package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/routes64/pkg/adapters/memory"
	"github.com/aretw0/routes64/pkg/domain"
	"github.com/aretw0/routes64/pkg/ports"
)

var _ ports.SaveStore = (*memory.Store)(nil)
var _ ports.SlotLister = (*memory.Store)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSaveStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	record := domain.RecordFromState(domain.NewState().Advance("R1"))
	require.NoError(t, store.Save(ctx, "save", record))

	record.Trail[0] = "mutated"

	loaded, err := store.Load(ctx, "save")
	require.NoError(t, err)
	assert.Equal(t, []string{"R", "R1"}, loaded.Trail)

	loaded.Trail[1] = "mutated"
	again, err := store.Load(ctx, "save")
	require.NoError(t, err)
	assert.Equal(t, "R1", again.Trail[1])
}
