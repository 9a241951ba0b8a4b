package clientstate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dukaan/apperr"
	"dukaan/models"
)

// Client talks to the storefront server. It maps the server's error bodies
// back onto the apperr taxonomy so callers can react with errors.Is/As.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error       string `json:"error"`
		ProductID   string `json:"productId"`
		ProductName string `json:"productName"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error == "" {
		payload.Error = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		if payload.ProductID != "" {
			return &apperr.ProductNotFoundError{ProductID: payload.ProductID, ProductName: payload.ProductName}
		}
		return apperr.NotFound("%s", payload.Error)
	case http.StatusBadRequest:
		return apperr.Validation("%s", payload.Error)
	case http.StatusConflict:
		return apperr.Conflict("%s", payload.Error)
	}
	return fmt.Errorf("server error (%d): %s", resp.StatusCode, payload.Error)
}

// CreateOrder submits a checkout payload and returns the created order.
func (c *Client) CreateOrder(ctx context.Context, info models.CustomerInfo, items []models.OrderItem) (models.Order, error) {
	payload := map[string]any{"customerInfo": info, "items": items}
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", payload, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// SyncOrders pushes ledger envelopes to the reconciler.
func (c *Client) SyncOrders(ctx context.Context, envelopes []models.SyncEnvelope) (models.SyncResult, error) {
	payload := map[string]any{"orders": envelopes}
	var result models.SyncResult
	if err := c.do(ctx, http.MethodPost, "/api/orders/sync", payload, &result); err != nil {
		return models.SyncResult{}, err
	}
	return result, nil
}

// OrderStatus fetches the current status for polling.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (models.OrderStatus, error) {
	var payload struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+orderID+"/status", nil, &payload); err != nil {
		return "", err
	}
	return payload.Status, nil
}

func (c *Client) IncrementFavorite(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodPost, "/api/favorites/"+productID, nil, nil)
}

func (c *Client) DecrementFavorite(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/favorites/"+productID, nil, nil)
}
