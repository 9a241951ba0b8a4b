package models

import "time"

// CartItem is a client-resident, denormalized product snapshot plus the
// chosen quantity. It exists only before checkout.
type CartItem struct {
	ProductID        string  `json:"productId"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Image            string  `json:"image,omitempty"`
	SKU              string  `json:"sku,omitempty"`
	MaxOrderQuantity int     `json:"maxOrderQuantity,omitempty"`
	Quantity         int     `json:"quantity"`
}

// FavoriteItem marks a product the customer saved for later.
type FavoriteItem struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

// LedgerEntry is one completed order as the customer's device remembers it.
type LedgerEntry struct {
	Order            Order  `json:"order"`
	NotificationLink string `json:"notificationLink,omitempty"`
}
