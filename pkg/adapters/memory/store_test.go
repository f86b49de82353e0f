package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/ballpark/pkg/adapters/memory"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunGameStoreContract(t, memory.NewStore())
}

func TestMemoryStore_ConcurrentGames(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("game-%02d", i)
			state := domain.NewGameState(id)
			state.Inning = i + 1
			assert.NoError(t, store.Save(ctx, id, state))
			_, err := store.Load(ctx, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 20)
	assert.Equal(t, "game-00", ids[0])
	assert.Equal(t, "game-19", ids[19])

	got, err := store.Load(ctx, "game-07")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Inning)
}
