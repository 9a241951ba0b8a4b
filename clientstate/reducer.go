package clientstate

import (
	"time"

	"dukaan/models"
)

// State is everything the device holds before an order exists: the cart and
// the favorites list.
type State struct {
	Cart      []models.CartItem
	Favorites []models.FavoriteItem
}

type ActionType string

const (
	ActionAddToCart      ActionType = "cart/add"
	ActionRemoveFromCart ActionType = "cart/remove"
	ActionUpdateQuantity ActionType = "cart/updateQuantity"
	ActionClearCart      ActionType = "cart/clear"
	ActionLoadCart       ActionType = "cart/load"
	ActionAddFavorite    ActionType = "favorites/add"
	ActionRemoveFavorite ActionType = "favorites/remove"
	ActionLoadFavorites  ActionType = "favorites/load"
)

// Action is one reducer input. Only the fields relevant to the Type are set.
type Action struct {
	Type      ActionType
	Product   models.Product
	ProductID string
	Quantity  int
	Cart      []models.CartItem
	Favorites []models.FavoriteItem
	At        time.Time
}

func clampQuantity(q, cap int) int {
	if q < 1 {
		return 1
	}
	if q > cap {
		return cap
	}
	return q
}

// reduce is the pure transition function. It never mutates its input; every
// branch returns a fresh State so snapshots taken before a dispatch stay
// valid for rollback.
func reduce(s State, a Action) State {
	switch a.Type {
	case ActionAddToCart, ActionRemoveFromCart, ActionUpdateQuantity, ActionClearCart, ActionLoadCart:
		return State{Cart: reduceCart(s.Cart, a), Favorites: s.Favorites}
	case ActionAddFavorite, ActionRemoveFavorite, ActionLoadFavorites:
		return State{Cart: s.Cart, Favorites: reduceFavorites(s.Favorites, a)}
	}
	return s
}

func reduceCart(cart []models.CartItem, a Action) []models.CartItem {
	switch a.Type {
	case ActionAddToCart:
		limit := a.Product.CapPerOrder()
		next := make([]models.CartItem, 0, len(cart)+1)
		found := false
		for _, it := range cart {
			if it.ProductID == a.Product.ProductID {
				// Overflow never errors: the quantity silently clamps to the cap.
				it.Quantity = clampQuantity(it.Quantity+a.Quantity, limit)
				found = true
			}
			next = append(next, it)
		}
		if !found {
			next = append(next, models.CartItem{
				ProductID:        a.Product.ProductID,
				Name:             a.Product.Name,
				Price:            a.Product.Price,
				Image:            a.Product.Image,
				SKU:              a.Product.SKU,
				MaxOrderQuantity: limit,
				Quantity:         clampQuantity(a.Quantity, limit),
			})
		}
		return next

	case ActionRemoveFromCart:
		next := make([]models.CartItem, 0, len(cart))
		for _, it := range cart {
			if it.ProductID != a.ProductID {
				next = append(next, it)
			}
		}
		return next

	case ActionUpdateQuantity:
		next := make([]models.CartItem, 0, len(cart))
		for _, it := range cart {
			if it.ProductID == a.ProductID {
				limit := it.MaxOrderQuantity
				if limit < 1 {
					limit = 10
				}
				it.Quantity = clampQuantity(a.Quantity, limit)
			}
			next = append(next, it)
		}
		return next

	case ActionClearCart:
		return []models.CartItem{}

	case ActionLoadCart:
		next := make([]models.CartItem, len(a.Cart))
		copy(next, a.Cart)
		return next
	}
	return cart
}

func reduceFavorites(favs []models.FavoriteItem, a Action) []models.FavoriteItem {
	switch a.Type {
	case ActionAddFavorite:
		for _, f := range favs {
			if f.ProductID == a.Product.ProductID {
				return favs
			}
		}
		next := make([]models.FavoriteItem, len(favs), len(favs)+1)
		copy(next, favs)
		at := a.At
		if at.IsZero() {
			at = time.Now()
		}
		return append(next, models.FavoriteItem{
			ProductID: a.Product.ProductID,
			Name:      a.Product.Name,
			Price:     a.Product.Price,
			Image:     a.Product.Image,
			AddedAt:   at,
		})

	case ActionRemoveFavorite:
		next := make([]models.FavoriteItem, 0, len(favs))
		for _, f := range favs {
			if f.ProductID != a.ProductID {
				next = append(next, f)
			}
		}
		return next

	case ActionLoadFavorites:
		next := make([]models.FavoriteItem, len(a.Favorites))
		copy(next, a.Favorites)
		return next
	}
	return favs
}
