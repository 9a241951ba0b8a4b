package clientstate

import (
	"testing"

	"dukaan/models"
)

var chai = models.Product{ProductID: "p1", Name: "Masala Chai", Price: 100, MaxOrderQuantity: 5}

func TestAddToCartClampsToCap(t *testing.T) {
	s := State{}
	s = reduce(s, Action{Type: ActionAddToCart, Product: chai, Quantity: 3})
	s = reduce(s, Action{Type: ActionAddToCart, Product: chai, Quantity: 10})

	if len(s.Cart) != 1 {
		t.Fatalf("expected one line, got %d", len(s.Cart))
	}
	if s.Cart[0].Quantity != 5 {
		t.Fatalf("expected clamped quantity 5, got %d", s.Cart[0].Quantity)
	}
}

func TestUpdateQuantityClampsBothEnds(t *testing.T) {
	s := reduce(State{}, Action{Type: ActionAddToCart, Product: chai, Quantity: 2})

	s = reduce(s, Action{Type: ActionUpdateQuantity, ProductID: "p1", Quantity: 99})
	if s.Cart[0].Quantity != 5 {
		t.Fatalf("expected cap 5, got %d", s.Cart[0].Quantity)
	}

	s = reduce(s, Action{Type: ActionUpdateQuantity, ProductID: "p1", Quantity: -3})
	if s.Cart[0].Quantity != 1 {
		t.Fatalf("expected floor 1, got %d", s.Cart[0].Quantity)
	}
}

func TestRemoveAndClearCart(t *testing.T) {
	other := models.Product{ProductID: "p2", Name: "Jaggery", Price: 40, MaxOrderQuantity: 3}
	s := reduce(State{}, Action{Type: ActionAddToCart, Product: chai, Quantity: 1})
	s = reduce(s, Action{Type: ActionAddToCart, Product: other, Quantity: 1})

	s = reduce(s, Action{Type: ActionRemoveFromCart, ProductID: "p1"})
	if len(s.Cart) != 1 || s.Cart[0].ProductID != "p2" {
		t.Fatalf("remove dropped wrong line: %+v", s.Cart)
	}

	s = reduce(s, Action{Type: ActionClearCart})
	if len(s.Cart) != 0 {
		t.Fatalf("clear left %d lines", len(s.Cart))
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := reduce(State{}, Action{Type: ActionAddToCart, Product: chai, Quantity: 2})
	before := s.Cart[0].Quantity

	_ = reduce(s, Action{Type: ActionUpdateQuantity, ProductID: "p1", Quantity: 4})
	if s.Cart[0].Quantity != before {
		t.Fatal("reducer mutated its input state")
	}
}

func TestFavoritesAddIsIdempotent(t *testing.T) {
	s := reduce(State{}, Action{Type: ActionAddFavorite, Product: chai})
	s = reduce(s, Action{Type: ActionAddFavorite, Product: chai})
	if len(s.Favorites) != 1 {
		t.Fatalf("expected one favorite, got %d", len(s.Favorites))
	}

	s = reduce(s, Action{Type: ActionRemoveFavorite, ProductID: "p1"})
	if len(s.Favorites) != 0 {
		t.Fatalf("remove left %d favorites", len(s.Favorites))
	}
}
