package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arleipolo/storefront-backend/internal/cart"
)

// Client dispatches reminders over HTTP against the reminder endpoint,
// the way an embedding storefront does.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient builds a dispatcher that POSTs to baseURL's reminder endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/v1/cart/reminder",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Dispatch posts the snapshot. The caller treats the outcome as
// fire-and-forget; an error here is logged by the watcher, never retried.
func (c *Client) Dispatch(ctx context.Context, to Recipient, items []cart.LineItem) error {
	body, err := json.Marshal(SendInput{
		Email: to.Email,
		Name:  to.Name,
		Cart:  items,
	})
	if err != nil {
		return fmt.Errorf("encoding reminder request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building reminder request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting reminder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("reminder endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// ServiceDispatcher adapts the in-process reminder service to the
// watcher's Dispatcher interface.
type ServiceDispatcher struct {
	Service Service
}

func (d ServiceDispatcher) Dispatch(ctx context.Context, to Recipient, items []cart.LineItem) error {
	return d.Service.Send(ctx, SendInput{Email: to.Email, Name: to.Name, Cart: items})
}
