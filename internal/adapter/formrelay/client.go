// Package formrelay posts orders to the hosted form endpoint.
package formrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// New builds a client posting to baseURL + formID.
func New(baseURL string, timeout time.Duration, logger logger.Logger) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Relay sends the full order record as JSON. Any 2xx is success; network
// errors, 429 and 5xx come back wrapping interfaces.ErrRetryable.
func (c *Client) Relay(ctx context.Context, formID string, order *domain.Order) error {
	if formID == "" {
		return fmt.Errorf("form id is not configured")
	}

	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+formID, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrRetryable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.logger.Debug("form_relay_accepted", "Form endpoint accepted order", order.ID, map[string]interface{}{
			"status": resp.StatusCode,
		})
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: form endpoint returned %d", interfaces.ErrRetryable, resp.StatusCode)
	default:
		return fmt.Errorf("form endpoint rejected order: status %d", resp.StatusCode)
	}
}
