package clientstate

import (
	"errors"
	"path/filepath"
	"testing"

	"dukaan/models"
)

func newTestStore(t *testing.T) (*Store, *FileCache) {
	t.Helper()
	cache, err := NewFileCache(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("cache init failed: %v", err)
	}
	return NewStore(cache), cache
}

func TestCacheMirrorsEveryTransition(t *testing.T) {
	store, cache := newTestStore(t)

	if err := store.AddToCart(chai, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	cached, err := cache.ReadCart()
	if err != nil {
		t.Fatalf("cache read failed: %v", err)
	}
	if len(cached) != 1 || cached[0].Quantity != 2 {
		t.Fatalf("cache does not mirror state: %+v", cached)
	}

	if err := store.ClearCart(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	cached, _ = cache.ReadCart()
	if len(cached) != 0 {
		t.Fatalf("cache not cleared: %+v", cached)
	}
}

func TestLoadHydratesFromCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	cache, _ := NewFileCache(dir)

	first := NewStore(cache)
	if err := first.AddToCart(chai, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := first.AddFavorite(chai); err != nil {
		t.Fatalf("favorite failed: %v", err)
	}

	// a fresh store over the same dir sees the same state
	second := NewStore(cache)
	if err := second.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := second.Cart(); len(got) != 1 || got[0].Quantity != 3 {
		t.Fatalf("cart not hydrated: %+v", got)
	}
	if got := second.Favorites(); len(got) != 1 {
		t.Fatalf("favorites not hydrated: %+v", got)
	}
}

func TestSubscribersSeeCommittedState(t *testing.T) {
	store, _ := newTestStore(t)

	var seen []int
	unsub := store.Subscribe(func(s State) {
		seen = append(seen, len(s.Cart))
	})

	store.AddToCart(chai, 1)
	store.ClearCart()
	unsub()
	store.AddToCart(chai, 1)

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 0 {
		t.Fatalf("unexpected notifications: %v", seen)
	}
}

type failingCache struct {
	Cache
	fail bool
}

func (c *failingCache) WriteCart(items []models.CartItem) error {
	if c.fail {
		return errors.New("disk full")
	}
	return c.Cache.WriteCart(items)
}

func TestFailedCacheWriteDoesNotCommit(t *testing.T) {
	inner, _ := NewFileCache(filepath.Join(t.TempDir(), "state"))
	cache := &failingCache{Cache: inner}
	store := NewStore(cache)

	if err := store.AddToCart(chai, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	cache.fail = true
	if err := store.AddToCart(chai, 1); err == nil {
		t.Fatal("expected error from failed cache write")
	}

	// in-memory state must match the last durable write
	if got := store.Cart(); got[0].Quantity != 2 {
		t.Fatalf("state diverged from cache: %+v", got)
	}
}
