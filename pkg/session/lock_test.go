package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/ballpark/pkg/domain"
)

type nopStore struct{}

func (nopStore) Save(ctx context.Context, gameID string, state *domain.GameState) error {
	return nil
}
func (nopStore) Load(ctx context.Context, gameID string) (*domain.GameState, error) {
	return domain.NewGameState(gameID), nil
}
func (nopStore) Delete(ctx context.Context, gameID string) error { return nil }
func (nopStore) List(ctx context.Context) ([]string, error)      { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("game-%d", i%50)
			_ = mgr.Save(ctx, id, domain.NewGameState(id))
			_, _ = mgr.Update(ctx, id, func(context.Context, *domain.GameState) error { return nil })
			_ = mgr.Delete(ctx, id)
		}(i)
	}
	wg.Wait()

	if n := len(mgr.locks); n != 0 {
		t.Errorf("expected every lock to be released, %d remain", n)
	}
}
