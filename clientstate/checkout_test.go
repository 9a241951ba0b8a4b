package clientstate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"dukaan/apperr"
	"dukaan/models"
)

// fakeOrdersAPI mimics the server's create/sync/status surface.
type fakeOrdersAPI struct {
	staleProduct string // when set, CreateOrder rejects this product once
	staleName    string
	created      []models.Order
	synced       [][]models.SyncEnvelope
	statuses     []models.OrderStatus
	statusErr    error
	nextSeq      int
}

func (a *fakeOrdersAPI) CreateOrder(_ context.Context, info models.CustomerInfo, items []models.OrderItem) (models.Order, error) {
	for _, it := range items {
		if it.ProductID == a.staleProduct {
			a.staleProduct = ""
			return models.Order{}, &apperr.ProductNotFoundError{ProductID: it.ProductID, ProductName: a.staleName}
		}
	}
	a.nextSeq++
	now := time.Now()
	order := models.Order{
		OrderID:          fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), a.nextSeq),
		CustomerInfo:     info,
		Items:            items,
		TotalAmount:      models.SumItems(items),
		Status:           models.StatusPending,
		NotificationLink: "https://wa.me/919900112233?text=order",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	a.created = append(a.created, order)
	return order, nil
}

func (a *fakeOrdersAPI) SyncOrders(_ context.Context, envelopes []models.SyncEnvelope) (models.SyncResult, error) {
	a.synced = append(a.synced, envelopes)
	return models.SyncResult{SyncedCount: len(envelopes)}, nil
}

func (a *fakeOrdersAPI) OrderStatus(_ context.Context, _ string) (models.OrderStatus, error) {
	if a.statusErr != nil {
		return "", a.statusErr
	}
	if len(a.statuses) == 0 {
		return models.StatusPending, nil
	}
	s := a.statuses[0]
	if len(a.statuses) > 1 {
		a.statuses = a.statuses[1:]
	}
	return s, nil
}

type fakeOpener struct {
	fail   bool
	opened []string
}

func (o *fakeOpener) Open(link string) error {
	if o.fail {
		return errors.New("popup blocked")
	}
	o.opened = append(o.opened, link)
	return nil
}

type fakeClipboard struct {
	fail   bool
	copied []string
}

func (c *fakeClipboard) Copy(text string) error {
	if c.fail {
		return errors.New("no clipboard")
	}
	c.copied = append(c.copied, text)
	return nil
}

func testOrchestrator(t *testing.T, api OrdersAPI, opener LinkOpener, clip Clipboard) (*Orchestrator, *Store, *Ledger) {
	t.Helper()
	store, _ := newTestStore(t)
	ledger, err := OpenLedger(filepath.Join(t.TempDir(), "ledger.json"))
	if err != nil {
		t.Fatalf("ledger open failed: %v", err)
	}
	return NewOrchestrator(store, ledger, api, opener, clip), store, ledger
}

func customerForm() models.CustomerInfo {
	return models.CustomerInfo{
		Name: "Asha Rao", Phone: "+919900112233", Address: "14 MG Road, Bengaluru",
	}
}

func TestCheckoutEndToEnd(t *testing.T) {
	api := &fakeOrdersAPI{}
	opener := &fakeOpener{}
	orch, store, ledger := testOrchestrator(t, api, opener, &fakeClipboard{})

	if err := store.AddToCart(chai, 2); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	result, err := orch.Checkout(context.Background(), customerForm())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.Order.TotalAmount != 200 {
		t.Fatalf("expected total 200, got %v", result.Order.TotalAmount)
	}
	if result.Order.Status != models.StatusPending {
		t.Fatalf("expected pending, got %s", result.Order.Status)
	}
	if entries := ledger.Entries(); len(entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(entries))
	}
	if cart := store.Cart(); len(cart) != 0 {
		t.Fatalf("cart not cleared: %+v", cart)
	}
	if !result.Notification.Opened || len(opener.opened) != 1 {
		t.Fatalf("notification link not opened: %+v", result.Notification)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	orch, _, _ := testOrchestrator(t, &fakeOrdersAPI{}, &fakeOpener{}, &fakeClipboard{})

	if _, err := orch.Checkout(context.Background(), customerForm()); !errors.Is(err, apperr.ErrEmptyCart) {
		t.Fatalf("expected empty-cart error, got %v", err)
	}
}

func TestCheckoutStaleProductRemovesOnlyThatItem(t *testing.T) {
	api := &fakeOrdersAPI{staleProduct: "p2", staleName: "Jaggery Block"}
	orch, store, ledger := testOrchestrator(t, api, &fakeOpener{}, &fakeClipboard{})

	jaggery := models.Product{ProductID: "p2", Name: "Jaggery Block", Price: 40, MaxOrderQuantity: 3}
	store.AddToCart(chai, 2)
	store.AddToCart(jaggery, 1)

	_, err := orch.Checkout(context.Background(), customerForm())
	var pnf *apperr.ProductNotFoundError
	if !errors.As(err, &pnf) {
		t.Fatalf("expected ProductNotFoundError, got %v", err)
	}
	if pnf.ProductID != "p2" || pnf.ProductName != "Jaggery Block" {
		t.Fatalf("error lacks product identity: %+v", pnf)
	}

	cart := store.Cart()
	if len(cart) != 1 || cart[0].ProductID != "p1" {
		t.Fatalf("expected only the stale item removed: %+v", cart)
	}
	if entries := ledger.Entries(); len(entries) != 0 {
		t.Fatal("failed checkout must not touch the ledger")
	}

	// retry with the reduced cart succeeds
	result, err := orch.Checkout(context.Background(), customerForm())
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if result.Order.TotalAmount != 200 {
		t.Fatalf("expected total 200 on retry, got %v", result.Order.TotalAmount)
	}
	if cart := store.Cart(); len(cart) != 0 {
		t.Fatalf("cart not cleared after retry: %+v", cart)
	}
}

func TestCheckoutClipboardFallback(t *testing.T) {
	clip := &fakeClipboard{}
	orch, store, _ := testOrchestrator(t, &fakeOrdersAPI{}, &fakeOpener{fail: true}, clip)
	store.AddToCart(chai, 1)

	result, err := orch.Checkout(context.Background(), customerForm())
	if err != nil {
		t.Fatalf("a blocked popup must never fail checkout: %v", err)
	}
	if result.Notification.Opened {
		t.Fatal("opener was supposed to fail")
	}
	if !result.Notification.Copied || len(clip.copied) != 1 {
		t.Fatalf("clipboard fallback not used: %+v", result.Notification)
	}
	if result.Notification.Message == "" {
		t.Fatal("user needs a message explaining the fallback")
	}
}

func TestSyncLedgerPushesEveryEntry(t *testing.T) {
	api := &fakeOrdersAPI{}
	orch, store, ledger := testOrchestrator(t, api, &fakeOpener{}, &fakeClipboard{})

	store.AddToCart(chai, 1)
	if _, err := orch.Checkout(context.Background(), customerForm()); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	store.AddToCart(chai, 2)
	if _, err := orch.Checkout(context.Background(), customerForm()); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	result, err := orch.SyncLedger(context.Background())
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.SyncedCount != 2 {
		t.Fatalf("expected 2 synced, got %d", result.SyncedCount)
	}
	if len(api.synced) != 1 || len(api.synced[0]) != 2 {
		t.Fatalf("unexpected envelopes: %+v", api.synced)
	}
	env := api.synced[0][0]
	if env.OrderID == "" || env.NotificationLink == "" || env.CreatedAt == nil {
		t.Fatalf("envelope missing fields: %+v", env)
	}
	if entries := ledger.Entries(); len(entries) != 2 {
		t.Fatal("sync must not consume the ledger")
	}
}

func TestPollStatusStopsOnUnknownOrder(t *testing.T) {
	api := &fakeOrdersAPI{statusErr: apperr.NotFound("order gone")}
	orch, _, _ := testOrchestrator(t, api, &fakeOpener{}, &fakeClipboard{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch := orch.PollStatus(ctx, "ORD-20260830-9999", 10*time.Millisecond)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected channel to close without emitting")
		}
	case <-time.After(time.Second):
		t.Fatal("poll did not short-circuit on unknown order")
	}
}

func TestPollStatusEmitsChangesAndStopsAtTerminal(t *testing.T) {
	api := &fakeOrdersAPI{statuses: []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusShipped, models.StatusDelivered,
	}}
	orch, _, _ := testOrchestrator(t, api, &fakeOpener{}, &fakeClipboard{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []models.OrderStatus
	for status := range orch.PollStatus(ctx, "ORD-20260830-0001", 5*time.Millisecond) {
		got = append(got, status)
	}
	if len(got) == 0 || got[len(got)-1] != models.StatusDelivered {
		t.Fatalf("expected poll to end at delivered, got %v", got)
	}
}
