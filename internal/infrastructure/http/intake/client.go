package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"tg_pizzeria/internal/config"
	domain "tg_pizzeria/internal/domain/order"
)

// Client talks to the intake API from an admin session. It implements the
// feed's Source and the status controller's Patcher.
type Client struct {
	httpClient *http.Client
	baseURL    string

	retryMaxAttempts int
	retryBackoff     time.Duration
}

func NewClient(cfg config.AdminConfig) *Client {
	return &Client{
		baseURL:          cfg.APIBaseURL,
		retryMaxAttempts: 3,
		retryBackoff:     time.Second,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

type listResponse struct {
	Success bool           `json:"success"`
	Orders  []domain.Order `json:"orders"`
	Error   string         `json:"error"`
}

type patchResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type patchRequest struct {
	OrderID       string  `json:"orderId"`
	OrderStatus   *string `json:"orderStatus,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
}

// List fetches all orders, newest first.
func (c *Client) List(ctx context.Context) ([]domain.Order, error) {
	resp, err := c.do(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", domain.ErrPersistence, err)
	}
	defer resp.Body.Close()

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode order list: %v", domain.ErrPersistence, err)
	}
	if resp.StatusCode != http.StatusOK || !body.Success {
		return nil, fmt.Errorf("%w: list orders: status %d: %s", domain.ErrPersistence, resp.StatusCode, body.Error)
	}
	return body.Orders, nil
}

// Patch applies a partial status update to one order.
func (c *Client) Patch(ctx context.Context, id string, upd domain.StatusUpdate) error {
	payload, err := json.Marshal(patchRequest{
		OrderID:       id,
		OrderStatus:   upd.OrderStatus,
		PaymentStatus: upd.PaymentStatus,
	})
	if err != nil {
		return fmt.Errorf("encode patch request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPatch, "/orders", payload)
	if err != nil {
		return fmt.Errorf("%w: patch order %s: %v", domain.ErrPersistence, id, err)
	}
	defer resp.Body.Close()

	var body patchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: decode patch response: %v", domain.ErrPersistence, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK && body.Success:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, body.Error)
	default:
		return fmt.Errorf("%w: patch order %s: status %d: %s", domain.ErrPersistence, id, resp.StatusCode, body.Error)
	}
}

// do issues a request with retry and linear backoff. Responses below 500
// are returned as-is for the caller to interpret; only transport failures
// and server errors are retried.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retryMaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.retryBackoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		var reqBody *bytes.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		} else {
			reqBody = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		lastErr = fmt.Errorf("status %d", resp.StatusCode)
		resp.Body.Close()
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retryMaxAttempts+1, lastErr)
}
