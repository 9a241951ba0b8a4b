package orders

import (
	"context"
	"errors"
	"log"

	"dukaan/apperr"
	"dukaan/models"
)

// SyncBatch merges client-known orders into the store. Envelopes are
// independent: one failing never aborts the rest, and replaying the same
// batch is safe.
//
// Existing orders get update-only treatment: customerInfo and the
// notification link are merged, the server status always wins. Unknown
// orders are created from the envelope, which covers orders the client
// drafted while the server was unreachable.
func (s *Service) SyncBatch(ctx context.Context, envelopes []models.SyncEnvelope) models.SyncResult {
	result := models.SyncResult{Errors: []models.SyncError{}}

	for _, env := range envelopes {
		if err := s.syncOne(ctx, env); err != nil {
			log.Printf("sync: envelope %q failed: %v", env.OrderID, err)
			result.ErrorCount++
			result.Errors = append(result.Errors, models.SyncError{OrderID: env.OrderID, Error: err.Error()})
			continue
		}
		result.SyncedCount++
	}
	return result
}

func (s *Service) syncOne(ctx context.Context, env models.SyncEnvelope) error {
	if env.OrderID == "" {
		return apperr.Validation("envelope is missing orderId")
	}

	_, err := s.repo.FindByOrderID(ctx, env.OrderID)
	switch {
	case err == nil:
		return s.repo.MergeSyncFields(ctx, env.OrderID, env.CustomerInfo, env.NotificationLink, s.now())
	case errors.Is(err, apperr.ErrNotFound):
		return s.createFromEnvelope(ctx, env)
	default:
		return err
	}
}

func (s *Service) createFromEnvelope(ctx context.Context, env models.SyncEnvelope) error {
	status := env.Status
	if status == "" {
		status = models.StatusPending
	}
	if !ValidStatus(status) {
		return apperr.Validation("unknown status %q", status)
	}
	if len(env.Items) == 0 {
		return apperr.Validation("envelope has no items")
	}

	now := s.now()
	createdAt := now
	if env.CreatedAt != nil {
		createdAt = *env.CreatedAt
	}

	order := models.Order{
		OrderID:          env.OrderID,
		CustomerInfo:     env.CustomerInfo,
		Items:            env.Items,
		TotalAmount:      models.SumItems(env.Items),
		Status:           status,
		NotificationLink: env.NotificationLink,
		CreatedAt:        createdAt,
		UpdatedAt:        now,
	}
	return s.repo.Insert(ctx, order)
}
