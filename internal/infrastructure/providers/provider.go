// Package providers implements the print-on-demand fulfillment clients.
// Each provider speaks its own REST dialect behind the shared PrintProvider
// capability, so the rest of the pipeline never sees vendor-specific shapes.
package providers

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/bookpress/backend/internal/domain/print"
)

// maxResponseSize is the maximum allowed response size from a provider API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ProviderProduct is one orderable catalog entry of a provider
type ProviderProduct struct {
	ID          string
	Name        string
	Variant     string
	Description string
	Currency    string
	Price       decimal.Decimal
}

// OrderItem is one line of a fulfillment order
type OrderItem struct {
	ProductID string
	Quantity  int
	FileURL   string
	FileType  string
}

// CreateOrderRequest carries everything a provider needs to manufacture an
// order. ProjectID and Attempt together derive the idempotency key, so a
// retried submission never yields a duplicate manufacturing order.
type CreateOrderRequest struct {
	ProjectID string
	Attempt   int
	Recipient print.Recipient
	Items     []OrderItem
}

// Validate checks the request before it goes on the wire
func (r *CreateOrderRequest) Validate() error {
	if r.ProjectID == "" {
		return fmt.Errorf("create order: project ID is required")
	}
	if err := r.Recipient.Validate(); err != nil {
		return err
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("create order: at least one item is required")
	}
	for _, item := range r.Items {
		if item.ProductID == "" || item.Quantity < 1 || item.FileURL == "" {
			return fmt.Errorf("create order: item needs product, quantity and file URL")
		}
	}
	return nil
}

// IdempotencyKey derives a stable key from the project and submission
// attempt. The same attempt always produces the same key.
func (r *CreateOrderRequest) IdempotencyKey() string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%d", r.ProjectID, r.Attempt)))
	return hex.EncodeToString(sum[:])
}

// PrintProvider is the unified capability of one fulfillment vendor. The
// orchestrator depends only on this interface, never on a concrete client.
type PrintProvider interface {
	// Code identifies the provider
	Code() print.ProviderCode
	// ListProducts retrieves the orderable catalog
	ListProducts(ctx context.Context) ([]ProviderProduct, error)
	// GetProduct retrieves one catalog entry
	GetProduct(ctx context.Context, productID string) (*ProviderProduct, error)
	// CreateOrder submits a manufacturing order
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*print.PrintOrder, error)
	// GetOrder retrieves the provider's view of an order
	GetOrder(ctx context.Context, providerOrderID string) (*print.PrintOrder, error)
	// ConfirmOrder releases a draft order into production
	ConfirmOrder(ctx context.Context, providerOrderID string) error
	// CancelOrder cancels an order through the provider
	CancelOrder(ctx context.Context, providerOrderID string) error
	// Track retrieves shipment tracking for an order
	Track(ctx context.Context, providerOrderID string) (*print.TrackingInfo, error)
	// MapStatus translates a vendor status string into the internal
	// lifecycle. The second return is false for unknown vendor statuses.
	MapStatus(vendorStatus string) (print.OrderStatus, bool)
}

// ShippingQuoter is the optional capability of providers that can quote
// shipping before an order exists.
type ShippingQuoter interface {
	QuoteShipping(ctx context.Context, req *CreateOrderRequest) (*print.OrderCost, error)
}

// APIError is a provider API failure with the HTTP status attached
type APIError struct {
	Provider   print.ProviderCode
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Transient reports whether the failure is worth retrying
func (e *APIError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// transport is the shared HTTP behavior of both clients: an injected rate
// limiter, bounded exponential retry for transient failures, and a response
// size cap. Client errors (4xx) never retry.
type transport struct {
	provider   print.ProviderCode
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

func newTransport(provider print.ProviderCode, timeout time.Duration, limiter *rate.Limiter, maxRetries int) *transport {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(5), 10)
	}
	return &transport{
		provider:   provider,
		client:     &http.Client{Timeout: timeout},
		limiter:    limiter,
		maxRetries: maxRetries,
	}
}

// do executes a request with retry. The builder runs once per attempt so
// request bodies are freshly readable on every retry.
func (t *transport) do(ctx context.Context, build func() (*http.Request, error)) ([]byte, error) {
	var body []byte

	operation := func() error {
		if err := t.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := t.client.Do(req.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("%s: request failed: %w", t.provider, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("%s: failed to read response: %w", t.provider, err)
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{
				Provider:   t.provider,
				StatusCode: resp.StatusCode,
				Message:    string(truncateBody(data)),
			}
			if !apiErr.Transient() {
				return backoff.Permanent(apiErr)
			}
			return apiErr
		}

		body = data
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(t.maxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}

func truncateBody(data []byte) []byte {
	const max = 256
	if len(data) <= max {
		return data
	}
	return data[:max]
}
