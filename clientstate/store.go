package clientstate

import (
	"sync"

	"dukaan/models"
)

// Store is the injectable cart/favorites state container: a reducer over
// Actions plus a durable cache. Callers get instant local mutations; the
// cache is written in the same logical step, so the two never diverge after
// a completed transition.
type Store struct {
	mu    sync.Mutex
	state State
	cache Cache
	subs  map[int]func(State)
	nextS int
}

func NewStore(cache Cache) *Store {
	return &Store{
		cache: cache,
		state: State{Cart: []models.CartItem{}, Favorites: []models.FavoriteItem{}},
		subs:  make(map[int]func(State)),
	}
}

// Load hydrates the in-memory state from the durable cache. Call once at
// startup.
func (s *Store) Load() error {
	cart, err := s.cache.ReadCart()
	if err != nil {
		return err
	}
	favs, err := s.cache.ReadFavorites()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if cart == nil {
		cart = []models.CartItem{}
	}
	if favs == nil {
		favs = []models.FavoriteItem{}
	}
	s.state = State{Cart: cart, Favorites: favs}
	snapshot := s.state
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, snapshot)
	return nil
}

// Subscribe registers a listener called after every committed transition.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextS
	s.nextS++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) subscribers() []func(State) {
	out := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(State), st State) {
	for _, fn := range subs {
		fn(st)
	}
}

// dispatch runs the reducer and mirrors the affected concern to the cache
// before committing. A failed cache write leaves the in-memory state
// untouched, which keeps the no-divergence invariant.
func (s *Store) dispatch(a Action) error {
	s.mu.Lock()
	next := reduce(s.state, a)

	var err error
	switch a.Type {
	case ActionAddToCart, ActionRemoveFromCart, ActionUpdateQuantity, ActionClearCart, ActionLoadCart:
		err = s.cache.WriteCart(next.Cart)
	default:
		err = s.cache.WriteFavorites(next.Favorites)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.state = next
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, next)
	return nil
}

// AddToCart inserts the product or bumps its quantity, clamped to the
// product's per-order cap. Overflow clamps silently, it never errors.
func (s *Store) AddToCart(p models.Product, quantity int) error {
	return s.dispatch(Action{Type: ActionAddToCart, Product: p, Quantity: quantity})
}

func (s *Store) RemoveFromCart(productID string) error {
	return s.dispatch(Action{Type: ActionRemoveFromCart, ProductID: productID})
}

// UpdateQuantity sets the quantity for a cart line, clamped to
// [1, maxOrderQuantity].
func (s *Store) UpdateQuantity(productID string, quantity int) error {
	return s.dispatch(Action{Type: ActionUpdateQuantity, ProductID: productID, Quantity: quantity})
}

func (s *Store) ClearCart() error {
	return s.dispatch(Action{Type: ActionClearCart})
}

func (s *Store) AddFavorite(p models.Product) error {
	return s.dispatch(Action{Type: ActionAddFavorite, Product: p})
}

func (s *Store) RemoveFavorite(productID string) error {
	return s.dispatch(Action{Type: ActionRemoveFavorite, ProductID: productID})
}

// restoreFavorites rolls the favorites concern back to a snapshot taken
// before an optimistic mutation.
func (s *Store) restoreFavorites(snapshot []models.FavoriteItem) error {
	return s.dispatch(Action{Type: ActionLoadFavorites, Favorites: snapshot})
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.state.Cart))
	copy(out, s.state.Cart)
	return out
}

// Favorites returns a copy of the current favorites list.
func (s *Store) Favorites() []models.FavoriteItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FavoriteItem, len(s.state.Favorites))
	copy(out, s.state.Favorites)
	return out
}
