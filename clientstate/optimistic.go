package clientstate

import (
	"context"
	"log"

	"dukaan/models"
)

// FavoritesAPI is the network half of the optimistic favorite toggle.
type FavoritesAPI interface {
	IncrementFavorite(ctx context.Context, productID string) error
	DecrementFavorite(ctx context.Context, productID string) error
}

// FavoriteToggler pairs the local favorites state with the shared server
// counter: snapshot, mutate locally, confirm over the network, roll back on
// rejection. The UI reads the local change immediately and consumes the
// channel for the eventual outcome.
type FavoriteToggler struct {
	store *Store
	api   FavoritesAPI
}

func NewFavoriteToggler(store *Store, api FavoritesAPI) *FavoriteToggler {
	return &FavoriteToggler{store: store, api: api}
}

// Favorite applies the local add, then confirms it with the server. A nil
// on the channel means the server agreed; an error means the local change
// was rolled back.
func (t *FavoriteToggler) Favorite(ctx context.Context, p models.Product) <-chan error {
	ch := make(chan error, 1)

	snapshot := t.store.Favorites()
	if err := t.store.AddFavorite(p); err != nil {
		ch <- err
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		if err := t.api.IncrementFavorite(ctx, p.ProductID); err != nil {
			if rbErr := t.store.restoreFavorites(snapshot); rbErr != nil {
				log.Println("favorite rollback failed:", rbErr)
			}
			ch <- err
			return
		}
		ch <- nil
	}()
	return ch
}

// Unfavorite mirrors Favorite for removal.
func (t *FavoriteToggler) Unfavorite(ctx context.Context, productID string) <-chan error {
	ch := make(chan error, 1)

	snapshot := t.store.Favorites()
	if err := t.store.RemoveFavorite(productID); err != nil {
		ch <- err
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		if err := t.api.DecrementFavorite(ctx, productID); err != nil {
			if rbErr := t.store.restoreFavorites(snapshot); rbErr != nil {
				log.Println("favorite rollback failed:", rbErr)
			}
			ch <- err
			return
		}
		ch <- nil
	}()
	return ch
}
