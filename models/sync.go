package models

import "time"

// SyncEnvelope is a client-submitted order record. It is distinct from the
// stored Order: the server decides what to take from it.
type SyncEnvelope struct {
	OrderID          string       `json:"orderId"`
	CustomerInfo     CustomerInfo `json:"customerInfo"`
	Items            []OrderItem  `json:"items,omitempty"`
	TotalAmount      float64      `json:"totalAmount,omitempty"`
	Status           OrderStatus  `json:"status,omitempty"`
	NotificationLink string       `json:"notificationLink,omitempty"`
	CreatedAt        *time.Time   `json:"createdAt,omitempty"`
}

// SyncError records one envelope that could not be merged.
type SyncError struct {
	OrderID string `json:"orderId"`
	Error   string `json:"error"`
}

// SyncResult summarizes a reconciliation batch. Per-envelope failures land
// in Errors; the batch itself still succeeds.
type SyncResult struct {
	SyncedCount int         `json:"syncedCount"`
	ErrorCount  int         `json:"errorCount"`
	Errors      []SyncError `json:"errors,omitempty"`
}
