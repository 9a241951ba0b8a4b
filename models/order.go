package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CustomerInfo is the buyer contact block embedded in an order.
type CustomerInfo struct {
	Name    string `json:"name" bson:"name"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
	Email   string `json:"email,omitempty" bson:"email,omitempty"`
}

// OrderItem is a snapshot of a catalog product at purchase time. ProductID
// is a weak reference only; the catalog row may change or vanish later
// without affecting historical orders.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
	SKU       string  `json:"sku,omitempty" bson:"sku,omitempty"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// Order is the authoritative transaction record.
type Order struct {
	OrderID            string       `json:"orderId" bson:"orderId"`
	CustomerInfo       CustomerInfo `json:"customerInfo" bson:"customerInfo"`
	Items              []OrderItem  `json:"items" bson:"items"`
	TotalAmount        float64      `json:"totalAmount" bson:"totalAmount"`
	Status             OrderStatus  `json:"status" bson:"status"`
	ConfirmedAt        *time.Time   `json:"confirmedAt,omitempty" bson:"confirmedAt,omitempty"`
	ShippedAt          *time.Time   `json:"shippedAt,omitempty" bson:"shippedAt,omitempty"`
	DeliveredAt        *time.Time   `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CancelledAt        *time.Time   `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CancellationReason string       `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	NotificationLink   string       `json:"notificationLink,omitempty" bson:"notificationLink,omitempty"`
	CreatedAt          time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// LineTotal is price times quantity for a single item.
func (it OrderItem) LineTotal() float64 {
	return it.Price * float64(it.Quantity)
}

// SumItems computes the order total from its line items.
func SumItems(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}
