// Package adminapi is the storefront's client for the coffee shop's admin
// backend. Every response uses the {success, message, data} envelope; a
// transport error and success=false are both reported as errors so callers
// can decide between fallback data and a blocking failure.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"brewhaus/models"
	"brewhaus/utils"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New() *Client {
	return &Client{
		BaseURL: utils.GetEnv("ADMIN_API_URL", "http://localhost:5001"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ErrNotFound distinguishes "no such order" from transport failures;
// the tracking surface must not treat the two alike.
var ErrNotFound = errors.New("not found")

// ErrUnavailable marks transport-level failure, the trigger for every
// local fallback path. A reachable admin API that says no is different.
var ErrUnavailable = errors.New("admin api unavailable")

func (c *Client) do(ctx context.Context, method, path string, body any, bearer string) (*models.APIEnvelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env models.APIEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode admin response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return &env, ErrNotFound
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = resp.Status
		}
		return &env, fmt.Errorf("admin api: %s", msg)
	}
	return &env, nil
}

// FetchStatic downloads a static asset (menu images) as raw bytes.
func (c *Client) FetchStatic(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset fetch: %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}

// GetContent fetches a content/menu payload (e.g. /api/public/menu) and
// returns the raw data document.
func (c *Client) GetContent(ctx context.Context, path string) (json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CreateOrderResult is the identity the admin API assigns to a new order.
type CreateOrderResult struct {
	OrderID            string     `json:"orderId"`
	OrderNumber        string     `json:"orderNumber"`
	EstimatedReadyTime *time.Time `json:"estimatedReadyTime,omitempty"`
	Total              float64    `json:"total"`
}

func (c *Client) CreateOrder(ctx context.Context, payload models.Order) (*CreateOrderResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/public/orders", payload, "")
	if err != nil {
		return nil, err
	}
	var res CreateOrderResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return nil, fmt.Errorf("decode order result: %w", err)
	}
	if res.OrderID == "" && res.OrderNumber == "" {
		return nil, fmt.Errorf("admin api returned no order identity")
	}
	return &res, nil
}

func (c *Client) LookupOrder(ctx context.Context, orderNumber, email string) (*models.Order, error) {
	q := url.Values{"orderNumber": {orderNumber}, "email": {email}}
	env, err := c.do(ctx, http.MethodGet, "/api/public/orders?"+q.Encode(), nil, "")
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

// TrackingResult pairs the order with its append-only status history.
type TrackingResult struct {
	Order    models.Order           `json:"order"`
	Tracking []models.TrackingEntry `json:"tracking"`
}

func (c *Client) FetchTracking(ctx context.Context, orderNumber, email, bearer string) (*TrackingResult, error) {
	q := url.Values{"orderNumber": {orderNumber}, "email": {email}}
	env, err := c.do(ctx, http.MethodGet, "/api/order-tracking?"+q.Encode(), nil, bearer)
	if err != nil {
		return nil, err
	}
	var res TrackingResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return nil, fmt.Errorf("decode tracking: %w", err)
	}
	return &res, nil
}

func (c *Client) AppendTracking(ctx context.Context, orderID, status, changedBy, bearer string) error {
	body := map[string]string{"orderId": orderID, "status": status, "changedBy": changedBy}
	_, err := c.do(ctx, http.MethodPost, "/api/order-tracking", body, bearer)
	return err
}

// AuthResult is the admin API's login/registration payload.
type AuthResult struct {
	Token    string          `json:"token"`
	Customer models.Customer `json:"customer"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := c.do(ctx, http.MethodPost, "/api/customers/login", body, "")
	if err != nil {
		return nil, err
	}
	var res AuthResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return nil, fmt.Errorf("decode auth result: %w", err)
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, name, email, phone, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "phone": phone, "password": password}
	env, err := c.do(ctx, http.MethodPost, "/api/customers", body, "")
	if err != nil {
		return nil, err
	}
	var res AuthResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return nil, fmt.Errorf("decode auth result: %w", err)
	}
	return &res, nil
}
