package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"dukaan/apperr"
	"dukaan/models"
	"dukaan/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler adapts the order service to HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func respondError(w http.ResponseWriter, err error) {
	var pnf *apperr.ProductNotFoundError
	if errors.As(err, &pnf) {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{
			"error":       pnf.Error(),
			"productId":   pnf.ProductID,
			"productName": pnf.ProductName,
		})
		return
	}
	utils.RespondWithError(w, apperr.StatusCode(err), err.Error())
}

// CreateOrder handles POST /api/orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		CustomerInfo models.CustomerInfo `json:"customerInfo"`
		Items        []models.OrderItem  `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("CreateOrder decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	order, err := h.svc.Create(ctx, payload.CustomerInfo, payload.Items)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetOrder handles GET /api/orders/:id (admin).
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.svc.FindByOrderID(ctx, ps.ByName("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// ListOrders handles GET /api/orders (admin).
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.svc.List(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetOrderStatus handles GET /api/orders/:id/status. Public: customers poll
// this without authentication.
func (h *Handler) GetOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.svc.FindByOrderID(ctx, ps.ByName("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orderId":   order.OrderID,
		"status":    order.Status,
		"updatedAt": order.UpdatedAt,
	})
}

// UpdateOrderStatus handles PATCH /api/orders/:id/status (admin).
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Status models.OrderStatus `json:"status"`
		Reason string             `json:"reason,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	order, err := h.svc.Transition(ctx, ps.ByName("id"), payload.Status, payload.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// CancelOrder handles PATCH /api/orders/:id/cancel (admin).
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	order, err := h.svc.Transition(ctx, ps.ByName("id"), models.StatusCancelled, payload.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateOrderCustomer handles PATCH /api/orders/:id/customer (admin).
func (h *Handler) UpdateOrderCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var info models.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	order, err := h.svc.UpdateCustomerInfo(ctx, ps.ByName("id"), info)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// SyncOrders handles POST /api/orders/sync. Per-envelope failures come back
// in the summary; only a structurally malformed body is rejected outright.
func (h *Handler) SyncOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var payload struct {
		Orders *[]models.SyncEnvelope `json:"orders"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if payload.Orders == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "orders must be an array")
		return
	}

	result := h.svc.SyncBatch(ctx, *payload.Orders)
	utils.RespondWithJSON(w, http.StatusOK, result)
}
