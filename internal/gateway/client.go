// Package gateway holds the outbound HTTP client for the payment
// gateway's payment lookup API.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"delivra/internal/models"
	"delivra/internal/services/reconciler"
)

const defaultTimeout = 10 * time.Second

// Client fetches payment state from the gateway REST API.
type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: defaultTimeout},
	}
}

type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
}

// GetPayment looks up one payment by id. The gateway status string is
// validated against the known payment statuses before use.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*reconciler.Payment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment lookup request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment lookup returned status %d", resp.StatusCode)
	}

	var body paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode payment lookup response: %w", err)
	}
	status, ok := models.ParsePaymentStatus(body.Status)
	if !ok {
		return nil, fmt.Errorf("payment %s: unknown gateway status %q", body.ID.String(), body.Status)
	}
	return &reconciler.Payment{
		ID:                body.ID.String(),
		Status:            status,
		ExternalReference: body.ExternalReference,
	}, nil
}
