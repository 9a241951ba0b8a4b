package clientstate

import (
	"context"
	"errors"
	"log"
	"time"

	"dukaan/apperr"
	"dukaan/models"
)

// OrdersAPI is the server surface the orchestrator needs.
type OrdersAPI interface {
	CreateOrder(ctx context.Context, info models.CustomerInfo, items []models.OrderItem) (models.Order, error)
	SyncOrders(ctx context.Context, envelopes []models.SyncEnvelope) (models.SyncResult, error)
	OrderStatus(ctx context.Context, orderID string) (models.OrderStatus, error)
}

// LinkOpener navigates to the notification deep link, e.g. the default
// browser. Open may fail (popup blocked, no handler); that is expected.
type LinkOpener interface {
	Open(link string) error
}

// Clipboard is the fallback when opening the link fails.
type Clipboard interface {
	Copy(text string) error
}

// NotificationOutcome tells the UI how the notification link was delivered.
// Never an error: notification is best-effort by contract.
type NotificationOutcome struct {
	Opened  bool   `json:"opened"`
	Copied  bool   `json:"copied"`
	Message string `json:"message,omitempty"`
}

// CheckoutResult is what the UI needs to navigate to the confirmation view.
type CheckoutResult struct {
	Order        models.Order        `json:"order"`
	Notification NotificationOutcome `json:"notification"`
}

// Orchestrator turns a cart snapshot plus a customer form into a persisted
// order. Order creation is the one durable commit; ledger append, cart
// clear and notification delivery are a best-effort saga on top of it and
// never fail the checkout.
type Orchestrator struct {
	store     *Store
	ledger    *Ledger
	api       OrdersAPI
	opener    LinkOpener
	clipboard Clipboard
}

func NewOrchestrator(store *Store, ledger *Ledger, api OrdersAPI, opener LinkOpener, clipboard Clipboard) *Orchestrator {
	return &Orchestrator{store: store, ledger: ledger, api: api, opener: opener, clipboard: clipboard}
}

// Checkout submits the current cart with the given customer form.
//
// If the server rejects an item because its product no longer exists, only
// that item is removed from the cart and the error is returned so the user
// can retry with the rest.
func (o *Orchestrator) Checkout(ctx context.Context, form models.CustomerInfo) (CheckoutResult, error) {
	snapshot := o.store.Cart()
	if len(snapshot) == 0 {
		return CheckoutResult{}, apperr.ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(snapshot))
	for _, it := range snapshot {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Image:     it.Image,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
		})
	}

	order, err := o.api.CreateOrder(ctx, form, items)
	if err != nil {
		var pnf *apperr.ProductNotFoundError
		if errors.As(err, &pnf) {
			if rmErr := o.store.RemoveFromCart(pnf.ProductID); rmErr != nil {
				log.Println("stale item removal failed:", rmErr)
			}
		}
		return CheckoutResult{}, err
	}

	// The order exists on the server now. Everything below is best-effort.
	if err := o.ledger.Append(order, order.NotificationLink); err != nil {
		log.Println("ledger append failed:", err)
	}
	if err := o.store.ClearCart(); err != nil {
		log.Println("cart clear failed:", err)
	}

	return CheckoutResult{
		Order:        order,
		Notification: o.deliverNotification(order.NotificationLink),
	}, nil
}

func (o *Orchestrator) deliverNotification(link string) NotificationOutcome {
	if link == "" {
		return NotificationOutcome{Message: "No notification link was issued for this order."}
	}
	if o.opener != nil {
		if err := o.opener.Open(link); err == nil {
			return NotificationOutcome{Opened: true}
		}
	}
	if o.clipboard != nil {
		if err := o.clipboard.Copy(link); err == nil {
			return NotificationOutcome{Copied: true, Message: "Notification link copied to clipboard. Paste it into WhatsApp to finish."}
		}
	}
	return NotificationOutcome{Message: "Could not open the notification link. Find it in your order history."}
}

// SyncLedger pushes the whole ledger through the server's reconciler.
// Explicit user action only; there is no background trigger.
func (o *Orchestrator) SyncLedger(ctx context.Context) (models.SyncResult, error) {
	entries := o.ledger.Entries()
	envelopes := make([]models.SyncEnvelope, 0, len(entries))
	for _, e := range entries {
		createdAt := e.Order.CreatedAt
		envelopes = append(envelopes, models.SyncEnvelope{
			OrderID:          e.Order.OrderID,
			CustomerInfo:     e.Order.CustomerInfo,
			Items:            e.Order.Items,
			TotalAmount:      e.Order.TotalAmount,
			Status:           e.Order.Status,
			NotificationLink: e.NotificationLink,
			CreatedAt:        &createdAt,
		})
	}
	return o.api.SyncOrders(ctx, envelopes)
}

// PollStatus re-fetches the order status on a fixed interval and emits
// changes. An unknown order id stops the poll for good instead of retrying
// forever; transient errors keep the ticker running.
func (o *Orchestrator) PollStatus(ctx context.Context, orderID string, interval time.Duration) <-chan models.OrderStatus {
	ch := make(chan models.OrderStatus, 1)

	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last models.OrderStatus
		for {
			status, err := o.api.OrderStatus(ctx, orderID)
			if errors.Is(err, apperr.ErrNotFound) {
				return
			}
			if err == nil && status != last {
				last = status
				select {
				case ch <- status:
				case <-ctx.Done():
					return
				}
				if status.IsTerminal() {
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return ch
}
