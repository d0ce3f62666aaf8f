package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rowanfield/cartsync/internal/model"
)

// DefaultTimeout bounds each remote request. A hung request would otherwise
// stall the engine's task loop for the duration of the OS socket timeout.
const DefaultTimeout = 5 * time.Second

// document is the wire form of an item: the item fields minus the id,
// which travels as the document key in the URL (or is assigned server-side
// on create).
type document struct {
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	Total     float64   `json:"total"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toDocument(it model.Item) document {
	return document{
		Name:      it.Name,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		Total:     it.Total,
		Completed: it.Completed,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

// HTTPStore talks to a REST collection of item documents:
//
//	GET    {base}/items        list all documents
//	POST   {base}/items        create, response body {"id": "..."}
//	PUT    {base}/items/{id}   full replacement of non-key fields
//	DELETE {base}/items/{id}   delete by key
//
// Transport failures and 5xx responses map to ErrUnavailable; 404 maps to
// ErrNotFound. Everything else is a plain error.
type HTTPStore struct {
	base   string
	client *http.Client
}

// NewHTTPStore creates an adapter for the collection served at baseURL.
// A zero timeout falls back to DefaultTimeout.
func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPStore{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Create implements Store.
func (s *HTTPStore) Create(ctx context.Context, item model.Item) (string, error) {
	body, err := s.do(ctx, http.MethodPost, s.base+"/items", toDocument(item))
	if err != nil {
		return "", fmt.Errorf("create item: %w", err)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("create item: decode response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create item: server returned empty id")
	}
	return resp.ID, nil
}

// Update implements Store.
func (s *HTTPStore) Update(ctx context.Context, id string, item model.Item) error {
	if _, err := s.do(ctx, http.MethodPut, s.itemURL(id), toDocument(item)); err != nil {
		return fmt.Errorf("update item %s: %w", id, err)
	}
	return nil
}

// Delete implements Store.
func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	if _, err := s.do(ctx, http.MethodDelete, s.itemURL(id), nil); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

// ListAll implements Store.
func (s *HTTPStore) ListAll(ctx context.Context) ([]model.Item, error) {
	body, err := s.do(ctx, http.MethodGet, s.base+"/items", nil)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	var items []model.Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("list items: decode response: %w", err)
	}
	return items, nil
}

func (s *HTTPStore) itemURL(id string) string {
	return s.base + "/items/" + url.PathEscape(id)
}

// do executes one request and maps the response status to the error
// taxonomy. Returns the response body for 2xx responses.
func (s *HTTPStore) do(ctx context.Context, method, rawURL string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// Transport-level failure: connection refused, timeout, DNS.
		slog.Debug("remote request failed", "method", method, "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
}
