package models

// Product is a catalog entry. Catalog CRUD lives elsewhere; the order
// pipeline only reads these to snapshot price/name/image/sku at checkout.
type Product struct {
	ProductID        string  `json:"productId" bson:"productid"`
	Name             string  `json:"name" bson:"name"`
	Description      string  `json:"description,omitempty" bson:"description,omitempty"`
	Price            float64 `json:"price" bson:"price"`
	Image            string  `json:"image,omitempty" bson:"image,omitempty"`
	SKU              string  `json:"sku,omitempty" bson:"sku,omitempty"`
	MaxOrderQuantity int     `json:"maxOrderQuantity,omitempty" bson:"maxOrderQuantity,omitempty"`
	Favorites        int64   `json:"favorites,omitempty" bson:"favorites,omitempty"`
}

// CapPerOrder returns the per-order quantity cap, defaulting when the
// catalog row does not set one.
func (p Product) CapPerOrder() int {
	if p.MaxOrderQuantity > 0 {
		return p.MaxOrderQuantity
	}
	return 10
}
