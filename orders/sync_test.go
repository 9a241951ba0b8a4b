package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dukaan/models"
)

func envelopeFor(orderID string, status models.OrderStatus) models.SyncEnvelope {
	created := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	return models.SyncEnvelope{
		OrderID:      orderID,
		CustomerInfo: validCustomer(),
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Masala Chai", Price: 100, Quantity: 2},
		},
		TotalAmount:      200,
		Status:           status,
		NotificationLink: "https://wa.me/919900112233?text=hello",
		CreatedAt:        &created,
	}
}

func TestSyncCreatesUnknownOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)

	result := svc.SyncBatch(context.Background(), []models.SyncEnvelope{envelopeFor("ORD-20260820-0001", "")})
	if result.SyncedCount != 1 || result.ErrorCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored, err := svc.FindByOrderID(context.Background(), "ORD-20260820-0001")
	if err != nil {
		t.Fatalf("order not created: %v", err)
	}
	if stored.Status != models.StatusPending {
		t.Fatalf("expected default pending, got %s", stored.Status)
	}
	if stored.TotalAmount != 200 {
		t.Fatalf("expected total 200, got %v", stored.TotalAmount)
	}
	if !stored.CreatedAt.Equal(time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("createdAt not taken from envelope: %v", stored.CreatedAt)
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)
	batch := []models.SyncEnvelope{envelopeFor("ORD-20260820-0002", models.StatusPending)}

	first := svc.SyncBatch(context.Background(), batch)
	second := svc.SyncBatch(context.Background(), batch)
	if first.SyncedCount != 1 || second.SyncedCount != 1 {
		t.Fatalf("both runs must succeed: %+v / %+v", first, second)
	}

	all, _ := svc.List(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected exactly one stored order, got %d", len(all))
	}
}

func TestSyncNeverOverwritesServerStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)

	// server already shipped this order
	env := envelopeFor("ORD-20260820-0003", models.StatusShipped)
	svc.SyncBatch(context.Background(), []models.SyncEnvelope{env})

	// stale client ledger claims it is still pending
	stale := envelopeFor("ORD-20260820-0003", models.StatusPending)
	stale.CustomerInfo.Address = "7 Brigade Road, Bengaluru"
	result := svc.SyncBatch(context.Background(), []models.SyncEnvelope{stale})
	if result.ErrorCount != 0 {
		t.Fatalf("merge failed: %+v", result)
	}

	stored, _ := svc.FindByOrderID(context.Background(), "ORD-20260820-0003")
	if stored.Status != models.StatusShipped {
		t.Fatalf("server status was overwritten: %s", stored.Status)
	}
	if stored.CustomerInfo.Address != "7 Brigade Road, Bengaluru" {
		t.Fatal("customerInfo was not merged")
	}
}

func TestSyncPartialFailureContinues(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo, nil)

	batch := []models.SyncEnvelope{
		{OrderID: ""}, // malformed
		envelopeFor("ORD-20260820-0004", ""),
		{OrderID: "ORD-20260820-0005", CustomerInfo: validCustomer()}, // no items
	}
	result := svc.SyncBatch(context.Background(), batch)
	if result.SyncedCount != 1 {
		t.Fatalf("good envelope should sync: %+v", result)
	}
	if result.ErrorCount != 2 || len(result.Errors) != 2 {
		t.Fatalf("expected two error entries: %+v", result)
	}

	if _, err := svc.FindByOrderID(context.Background(), "ORD-20260820-0004"); err != nil {
		t.Fatalf("good envelope not stored: %v", err)
	}
}

func TestSyncHandlerRejectsMalformedBody(t *testing.T) {
	h := NewHandler(testService(newFakeRepo(), nil))

	// missing orders field entirely
	req := httptest.NewRequest(http.MethodPost, "/api/orders/sync", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	h.SyncOrders(rec, req, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing orders, got %d", rec.Code)
	}

	// orders is not an array
	req = httptest.NewRequest(http.MethodPost, "/api/orders/sync", bytes.NewBufferString(`{"orders": "nope"}`))
	rec = httptest.NewRecorder()
	h.SyncOrders(rec, req, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-array orders, got %d", rec.Code)
	}

	// empty batch is fine and returns a zero summary
	req = httptest.NewRequest(http.MethodPost, "/api/orders/sync", bytes.NewBufferString(`{"orders": []}`))
	rec = httptest.NewRecorder()
	h.SyncOrders(rec, req, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty batch, got %d", rec.Code)
	}
	var result models.SyncResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if result.SyncedCount != 0 || result.ErrorCount != 0 {
		t.Fatalf("expected zero summary, got %+v", result)
	}
}
