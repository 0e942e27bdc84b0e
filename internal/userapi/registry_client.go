package userapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Notifier forwards local ticker creations to the registry service.
type Notifier interface {
	NotifyTickerCreated(ctx context.Context, symbol string) error
}

// Compile-time check to ensure RegistryClient implements Notifier
var _ Notifier = (*RegistryClient)(nil)

// RegistryClient wraps the HTTP connection to the registry service.
type RegistryClient struct {
	client *resty.Client
}

// NewRegistryClient creates a new HTTP client for the registry service.
// The timeout bounds every notification call.
func NewRegistryClient(baseURL string, timeout time.Duration) *RegistryClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &RegistryClient{client: client}
}

type registerTickerRequest struct {
	Symbol string `json:"symbol"`
}

// NotifyTickerCreated posts a newly created symbol to the registry.
// A transport failure or a non-2xx response is returned as an error so the
// caller can compensate.
func (r *RegistryClient) NotifyTickerCreated(ctx context.Context, symbol string) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(registerTickerRequest{Symbol: symbol}).
		Post("/tickers")
	if err != nil {
		return fmt.Errorf("registry request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("registry returned status %d", resp.StatusCode())
	}
	return nil
}
