package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoadSharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "Kadikoy Rovers", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "team:id:10", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "Kadikoy Rovers" {
				errCh <- errors.New("unexpected loaded value")
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_LoaderErrorsAreNotCached(t *testing.T) {
	store := NewStore(time.Minute)
	boom := errors.New("db down")
	calls := 0

	_, err := Load(context.Background(), store, "player:id:100", func(context.Context) (int, error) {
		calls++
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}

	got, err := Load(context.Background(), store, "player:id:100", func(context.Context) (int, error) {
		calls++
		return 7, nil
	})
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got != 7 || calls != 2 {
		t.Fatalf("got value %d after %d calls, want 7 after 2", got, calls)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	store := NewStore(time.Second)
	now := time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "team:id:11", "Besiktas Pier")
	if _, ok := store.Get(context.Background(), "team:id:11"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Second)
	if _, ok := store.Get(context.Background(), "team:id:11"); ok {
		t.Fatalf("expected expired entry to miss")
	}

	stats := store.Stats()
	if stats.Entries != 0 || stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "team:id:10", 1)
	store.Set(ctx, "team:id:11", 2)
	store.Set(ctx, "player:id:100", 3)

	if removed := store.DeletePrefix(ctx, "team:"); removed != 2 {
		t.Fatalf("removed %d keys, want 2", removed)
	}
	if _, ok := store.Get(ctx, "player:id:100"); !ok {
		t.Fatalf("player key should survive")
	}
}
