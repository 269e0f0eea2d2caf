package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/bookpress/backend/internal/domain/print"
)

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestLumaprintsConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *LumaprintsConfig
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &LumaprintsConfig{APIKey: "key", BaseURL: "https://example.com"},
			wantErr: nil,
		},
		{
			name:    "missing API key",
			config:  &LumaprintsConfig{BaseURL: "https://example.com"},
			wantErr: ErrLumaprintsMissingAPIKey,
		},
		{
			name:    "missing base URL",
			config:  &LumaprintsConfig{APIKey: "key"},
			wantErr: ErrLumaprintsMissingBaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.True(t, tt.config.TimeoutSeconds > 0)
				assert.True(t, tt.config.MaxRetries > 0)
			}
		})
	}
}

func TestNewLumaprintsConfig(t *testing.T) {
	config := NewLumaprintsConfig("secret")
	assert.Equal(t, "secret", config.APIKey)
	assert.Equal(t, LumaprintsProductionAPIURL, config.BaseURL)
}

// ---------------------------------------------------------------------------
// Adapter Tests
// ---------------------------------------------------------------------------

func newLumaprintsTestAdapter(t *testing.T, baseURL string) *LumaprintsAdapter {
	t.Helper()
	config := NewLumaprintsConfig("test-key")
	config.BaseURL = baseURL
	config.Limiter = rate.NewLimiter(rate.Inf, 1)
	adapter, err := NewLumaprintsAdapter(config)
	require.NoError(t, err)
	return adapter
}

func testOrderRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		ProjectID: "proj-42",
		Attempt:   1,
		Recipient: print.Recipient{
			Name:        "Ada Lovelace",
			Address1:    "12 Analytical Way",
			City:        "London",
			CountryCode: "GB",
			PostalCode:  "EC1A 1BB",
		},
		Items: []OrderItem{
			{ProductID: "book-8x8-matte", Quantity: 2, FileURL: "https://files.example.com/job.pdf", FileType: "pdf"},
		},
	}
}

func TestNewLumaprintsAdapter_InvalidConfig(t *testing.T) {
	adapter, err := NewLumaprintsAdapter(&LumaprintsConfig{})
	assert.Error(t, err)
	assert.Nil(t, adapter)
}

func TestLumaprintsAdapter_Code(t *testing.T) {
	adapter := newLumaprintsTestAdapter(t, "https://example.com")
	assert.Equal(t, print.ProviderLumaprints, adapter.Code())
}

func TestLumaprintsAdapter_ListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(lumaProductsResponse{
			Products: []lumaProduct{
				{ID: "book-8x8-matte", Name: "8x8 Photo Book", Variant: "matte", Currency: "USD", Price: "14.50"},
				{ID: "book-10x10-glossy", Name: "10x10 Photo Book", Variant: "glossy", Currency: "USD", Price: "22.00"},
			},
		})
	}))
	defer server.Close()

	adapter := newLumaprintsTestAdapter(t, server.URL)
	products, err := adapter.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "book-8x8-matte", products[0].ID)
	assert.Equal(t, "14.5", products[0].Price.String())
}

func TestLumaprintsAdapter_CreateOrder(t *testing.T) {
	req := testOrderRequest()
	wantKey := req.IdempotencyKey()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, wantKey, r.Header.Get("Idempotency-Key"))

		var wire lumaCreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&wire))
		assert.Equal(t, wantKey, wire.ExternalID)
		require.Len(t, wire.Items, 1)
		assert.Equal(t, "book-8x8-matte", wire.Items[0].VariantID)
		assert.Equal(t, "GB", wire.Recipient.CountryCode)

		_ = json.NewEncoder(w).Encode(lumaOrder{
			ID:         "LP-1001",
			ExternalID: wire.ExternalID,
			Status:     "pending",
			Costs:      &lumaCosts{Currency: "USD", Subtotal: "29.00", Shipping: "4.99", Tax: "0", Total: "33.99"},
			CreatedAt:  time.Now(),
		})
	}))
	defer server.Close()

	adapter := newLumaprintsTestAdapter(t, server.URL)
	order, err := adapter.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "LP-1001", order.ProviderOrderID)
	assert.Equal(t, print.OrderStatusPending, order.Status)
	assert.Equal(t, "book-8x8-matte", order.ProductID)
	assert.Equal(t, 2, order.Quantity)
	require.NotNil(t, order.Cost)
	assert.Equal(t, "33.99", order.Cost.Total.String())
}

func TestLumaprintsAdapter_CreateOrder_InvalidRequest(t *testing.T) {
	adapter := newLumaprintsTestAdapter(t, "https://example.com")
	_, err := adapter.CreateOrder(context.Background(), &CreateOrderRequest{})
	assert.Error(t, err)
}

func TestLumaprintsAdapter_GetOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/LP-1001", r.URL.Path)
		_ = json.NewEncoder(w).Encode(lumaOrder{
			ID:     "LP-1001",
			Status: "fulfilled",
			Items: []lumaOrderItem{
				{VariantID: "book-8x8-matte", Quantity: 2, Files: []lumaFile{{URL: "https://files.example.com/job.pdf"}}},
			},
			CreatedAt: time.Now(),
		})
	}))
	defer server.Close()

	adapter := newLumaprintsTestAdapter(t, server.URL)
	order, err := adapter.GetOrder(context.Background(), "LP-1001")
	require.NoError(t, err)
	assert.Equal(t, print.OrderStatusShipped, order.Status)
	assert.Equal(t, "book-8x8-matte", order.ProductID)
	assert.Equal(t, "https://files.example.com/job.pdf", order.FileURL)
}

func TestLumaprintsAdapter_ConfirmAndCancel(t *testing.T) {
	var confirmed, cancelled bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/orders/LP-1001/confirm":
			confirmed = true
		case r.Method == http.MethodDelete && r.URL.Path == "/orders/LP-1001":
			cancelled = true
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	adapter := newLumaprintsTestAdapter(t, server.URL)
	require.NoError(t, adapter.ConfirmOrder(context.Background(), "LP-1001"))
	require.NoError(t, adapter.CancelOrder(context.Background(), "LP-1001"))
	assert.True(t, confirmed)
	assert.True(t, cancelled)
}

func TestLumaprintsAdapter_Track(t *testing.T) {
	shipped := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/LP-1001/shipping", r.URL.Path)
		_ = json.NewEncoder(w).Encode(lumaShipping{
			Carrier:        "UPS",
			TrackingNumber: "1Z999",
			TrackingURL:    "https://track.example.com/1Z999",
			ShippedAt:      &shipped,
		})
	}))
	defer server.Close()

	adapter := newLumaprintsTestAdapter(t, server.URL)
	info, err := adapter.Track(context.Background(), "LP-1001")
	require.NoError(t, err)
	assert.Equal(t, "UPS", info.Carrier)
	assert.Equal(t, "1Z999", info.Number)
	require.NotNil(t, info.ShippedAt)
	assert.True(t, info.ShippedAt.Equal(shipped))
}

func TestLumaprintsAdapter_MapStatus(t *testing.T) {
	adapter := newLumaprintsTestAdapter(t, "https://example.com")

	tests := []struct {
		vendor string
		want   print.OrderStatus
		known  bool
	}{
		{"draft", print.OrderStatusDraft, true},
		{"pending", print.OrderStatusPending, true},
		{"onhold", print.OrderStatusProcessing, true},
		{"inprocess", print.OrderStatusPrinting, true},
		{"partial", print.OrderStatusPrinting, true},
		{"fulfilled", print.OrderStatusShipped, true},
		{"canceled", print.OrderStatusCancelled, true},
		{"failed", print.OrderStatusFailed, true},
		{"something_new", "", false},
	}
	for _, tt := range tests {
		got, ok := adapter.MapStatus(tt.vendor)
		assert.Equal(t, tt.known, ok, "status %q", tt.vendor)
		assert.Equal(t, tt.want, got, "status %q", tt.vendor)
	}
}

// ---------------------------------------------------------------------------
// Transport Tests
// ---------------------------------------------------------------------------

func TestLumaprintsAdapter_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(lumaProductsResponse{
			Products: []lumaProduct{{ID: "book-8x8-matte"}},
		})
	}))
	defer server.Close()

	adapter := newLumaprintsTestAdapter(t, server.URL)
	products, err := adapter.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLumaprintsAdapter_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"bad variant"}`))
	}))
	defer server.Close()

	adapter := newLumaprintsTestAdapter(t, server.URL)
	_, err := adapter.ListProducts(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.False(t, apiErr.Transient())
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreateOrderRequest_IdempotencyKey(t *testing.T) {
	a := &CreateOrderRequest{ProjectID: "proj-42", Attempt: 1}
	b := &CreateOrderRequest{ProjectID: "proj-42", Attempt: 1}
	c := &CreateOrderRequest{ProjectID: "proj-42", Attempt: 2}

	assert.Equal(t, a.IdempotencyKey(), b.IdempotencyKey())
	assert.NotEqual(t, a.IdempotencyKey(), c.IdempotencyKey())
	assert.Len(t, a.IdempotencyKey(), 40)
}
