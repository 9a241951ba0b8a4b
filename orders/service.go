package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"dukaan/apperr"
	"dukaan/models"
	"dukaan/wanotify"
)

// Sequencer hands out the next per-day order sequence number atomically.
type Sequencer func(ctx context.Context, day string) (int64, error)

// Catalog resolves product ids for purchase-time snapshots.
type Catalog interface {
	Find(ctx context.Context, productID string) (models.Product, error)
}

// Notifier publishes a best-effort confirmation event for an order.
type Notifier interface {
	Dispatch(ctx context.Context, o models.Order) wanotify.DispatchResult
}

// Service owns order creation, lookups, the status state machine and the
// sync reconciler. All collaborators are injected; nothing reaches for
// package-level state.
type Service struct {
	repo      Repo
	catalog   Catalog
	nextSeq   Sequencer
	buildLink func(models.Order) string
	notifier  Notifier
	now       func() time.Time
}

func NewService(repo Repo, catalog Catalog, nextSeq Sequencer, buildLink func(models.Order) string, notifier Notifier) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		nextSeq:   nextSeq,
		buildLink: buildLink,
		notifier:  notifier,
		now:       time.Now,
	}
}

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,14}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const minAddressLen = 5

func validateCustomerInfo(info models.CustomerInfo) error {
	if strings.TrimSpace(info.Name) == "" {
		return apperr.Validation("customer name is required")
	}
	if !phonePattern.MatchString(strings.TrimSpace(info.Phone)) {
		return apperr.Validation("invalid phone number %q", info.Phone)
	}
	if len(strings.TrimSpace(info.Address)) < minAddressLen {
		return apperr.Validation("address must be at least %d characters", minAddressLen)
	}
	if info.Email != "" && !emailPattern.MatchString(info.Email) {
		return apperr.Validation("invalid email %q", info.Email)
	}
	return nil
}

// Create validates the payload, re-snapshots each item from the live
// catalog, computes the total server-side, assigns an ORD-YYYYMMDD-NNNN
// identity from the atomic per-day counter and persists the order.
func (s *Service) Create(ctx context.Context, info models.CustomerInfo, requested []models.OrderItem) (models.Order, error) {
	if err := validateCustomerInfo(info); err != nil {
		return models.Order{}, err
	}
	if len(requested) == 0 {
		return models.Order{}, apperr.Validation("order must contain at least one item")
	}

	items := make([]models.OrderItem, 0, len(requested))
	for _, req := range requested {
		if req.ProductID == "" {
			return models.Order{}, apperr.Validation("item is missing a product id")
		}
		product, err := s.catalog.Find(ctx, req.ProductID)
		if err != nil {
			// Keep the client's display name on the not-found error so the
			// caller can tell the user which cart item went stale.
			var pnf *apperr.ProductNotFoundError
			if errors.As(err, &pnf) && pnf.ProductName == "" {
				pnf.ProductName = req.Name
			}
			return models.Order{}, err
		}
		if req.Quantity < 1 || req.Quantity > product.CapPerOrder() {
			return models.Order{}, apperr.Validation("quantity for %s must be between 1 and %d", product.Name, product.CapPerOrder())
		}
		items = append(items, models.OrderItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			SKU:       product.SKU,
			Quantity:  req.Quantity,
		})
	}

	now := s.now()
	day := now.Format("20060102")
	seq, err := s.nextSeq(ctx, day)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		OrderID:      fmt.Sprintf("ORD-%s-%04d", day, seq),
		CustomerInfo: info,
		Items:        items,
		TotalAmount:  models.SumItems(items),
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.buildLink != nil {
		order.NotificationLink = s.buildLink(order)
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// FindByOrderID returns the stored order.
func (s *Service) FindByOrderID(ctx context.Context, orderID string) (models.Order, error) {
	return s.repo.FindByOrderID(ctx, orderID)
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	return s.repo.List(ctx)
}

// UpdateCustomerInfo replaces the contact block on an existing order.
func (s *Service) UpdateCustomerInfo(ctx context.Context, orderID string, info models.CustomerInfo) (models.Order, error) {
	if err := validateCustomerInfo(info); err != nil {
		return models.Order{}, err
	}
	return s.repo.UpdateCustomerInfo(ctx, orderID, info, s.now())
}

// Transition moves an order along the status graph. The write is guarded on
// the status read here, so a racing transition surfaces as a conflict
// rather than a lost update. Entering confirmed fires the notification
// dispatch; its failure never rolls the transition back.
func (s *Service) Transition(ctx context.Context, orderID string, newStatus models.OrderStatus, reason string) (models.Order, error) {
	if !ValidStatus(newStatus) {
		return models.Order{}, apperr.Validation("unknown status %q", newStatus)
	}

	order, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if !CanTransition(order.Status, newStatus) {
		return models.Order{}, apperr.Conflict("cannot transition order %s from %s to %s", orderID, order.Status, newStatus)
	}
	if newStatus == models.StatusCancelled && strings.TrimSpace(reason) == "" {
		return models.Order{}, apperr.Validation("cancellation requires a reason")
	}

	updated, err := s.repo.TransitionStatus(ctx, orderID, order.Status, newStatus, s.now(), reason)
	if err != nil {
		return models.Order{}, err
	}

	if newStatus == models.StatusConfirmed && s.notifier != nil {
		go func(o models.Order) {
			res := s.notifier.Dispatch(context.Background(), o)
			if res.Err != nil {
				log.Printf("confirmation dispatch for %s failed: %v", o.OrderID, res.Err)
			}
		}(updated)
	}
	return updated, nil
}
