package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookpress/backend/internal/domain/print"
)

// GelaprintAdapter implements PrintProvider for the Gelaprint API.
// Authentication is an X-API-Key header. Orders are created directly in
// production (there is no draft/confirm step), keyed by the caller-supplied
// orderReferenceId which the vendor deduplicates on.
type GelaprintAdapter struct {
	config    *GelaprintConfig
	transport *transport
	logger    *zap.Logger
}

// NewGelaprintAdapter creates a new Gelaprint client
func NewGelaprintAdapter(config *GelaprintConfig) (*GelaprintAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GelaprintAdapter{
		config: config,
		transport: newTransport(print.ProviderGelaprint,
			time.Duration(config.TimeoutSeconds)*time.Second, config.Limiter, config.MaxRetries),
		logger: logger,
	}, nil
}

// Code returns the provider code this adapter handles
func (a *GelaprintAdapter) Code() print.ProviderCode {
	return print.ProviderGelaprint
}

// ListProducts retrieves the orderable catalog
func (a *GelaprintAdapter) ListProducts(ctx context.Context) ([]ProviderProduct, error) {
	body, err := a.get(ctx, "/products")
	if err != nil {
		return nil, err
	}
	var resp gelaProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("gelaprint: failed to parse products: %w", err)
	}
	products := make([]ProviderProduct, 0, len(resp.Products))
	for i := range resp.Products {
		products = append(products, resp.Products[i].toDomain())
	}
	return products, nil
}

// GetProduct retrieves one catalog entry
func (a *GelaprintAdapter) GetProduct(ctx context.Context, productID string) (*ProviderProduct, error) {
	body, err := a.get(ctx, "/products/"+productID)
	if err != nil {
		return nil, err
	}
	var wire gelaProduct
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("gelaprint: failed to parse product: %w", err)
	}
	product := wire.toDomain()
	return &product, nil
}

// CreateOrder submits a manufacturing order
func (a *GelaprintAdapter) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*print.PrintOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	wire := gelaCreateOrderRequest{
		OrderReferenceID: req.IdempotencyKey(),
		ShippingAddress:  toGelaAddress(req.Recipient),
	}
	for _, item := range req.Items {
		wire.Items = append(wire.Items, gelaOrderItem{
			ProductUID: item.ProductID,
			Quantity:   item.Quantity,
			Files:      []gelaFile{{URL: item.FileURL, Type: item.FileType}},
		})
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("gelaprint: failed to encode order: %w", err)
	}

	body, err := a.transport.do(ctx, func() (*http.Request, error) {
		httpReq, err := http.NewRequest(http.MethodPost, a.config.BaseURL+"/orders", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		a.setHeaders(httpReq)
		return httpReq, nil
	})
	if err != nil {
		return nil, err
	}

	order, err := a.orderFromWire(body, req)
	if err != nil {
		return nil, err
	}
	a.logger.Info("gelaprint order created",
		zap.String("provider_order_id", order.ProviderOrderID),
		zap.String("status", order.Status.String()))
	return order, nil
}

// GetOrder retrieves the provider's view of an order
func (a *GelaprintAdapter) GetOrder(ctx context.Context, providerOrderID string) (*print.PrintOrder, error) {
	body, err := a.get(ctx, "/orders/"+providerOrderID)
	if err != nil {
		return nil, err
	}
	return a.orderFromWire(body, nil)
}

// ConfirmOrder is a no-op: Gelaprint orders enter production on creation
func (a *GelaprintAdapter) ConfirmOrder(ctx context.Context, providerOrderID string) error {
	return nil
}

// CancelOrder cancels an order through the provider
func (a *GelaprintAdapter) CancelOrder(ctx context.Context, providerOrderID string) error {
	_, err := a.transport.do(ctx, func() (*http.Request, error) {
		httpReq, err := http.NewRequest(http.MethodDelete, a.config.BaseURL+"/orders/"+providerOrderID, nil)
		if err != nil {
			return nil, err
		}
		a.setHeaders(httpReq)
		return httpReq, nil
	})
	return err
}

// Track retrieves shipment tracking for an order. Gelaprint reports
// shipment inline on the order resource rather than a separate endpoint.
func (a *GelaprintAdapter) Track(ctx context.Context, providerOrderID string) (*print.TrackingInfo, error) {
	body, err := a.get(ctx, "/orders/"+providerOrderID)
	if err != nil {
		return nil, err
	}
	var wire gelaOrder
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("gelaprint: failed to parse order: %w", err)
	}
	if wire.Shipment == nil {
		return nil, fmt.Errorf("gelaprint: order %s has not shipped", providerOrderID)
	}
	return &print.TrackingInfo{
		Carrier:   wire.Shipment.Carrier,
		Number:    wire.Shipment.TrackingCode,
		URL:       wire.Shipment.TrackingURL,
		ShippedAt: wire.Shipment.ShippedAt,
	}, nil
}

// QuoteShipping returns the cost breakdown for a prospective order
func (a *GelaprintAdapter) QuoteShipping(ctx context.Context, req *CreateOrderRequest) (*print.OrderCost, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	wire := gelaQuoteRequest{ShippingAddress: toGelaAddress(req.Recipient)}
	for _, item := range req.Items {
		wire.Items = append(wire.Items, gelaQuoteItem{
			ProductUID: item.ProductID,
			Quantity:   item.Quantity,
		})
	}
	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("gelaprint: failed to encode quote: %w", err)
	}

	body, err := a.transport.do(ctx, func() (*http.Request, error) {
		httpReq, err := http.NewRequest(http.MethodPost, a.config.BaseURL+"/shipping/quote", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		a.setHeaders(httpReq)
		return httpReq, nil
	})
	if err != nil {
		return nil, err
	}

	var quote gelaQuoteResponse
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("gelaprint: failed to parse quote: %w", err)
	}
	return &print.OrderCost{
		Currency: quote.Currency,
		Subtotal: parseDecimal(quote.ProductsCost),
		Shipping: parseDecimal(quote.ShippingCost),
		Tax:      parseDecimal(quote.TaxCost),
		Total:    parseDecimal(quote.TotalCost),
	}, nil
}

// MapStatus translates a Gelaprint fulfillment status into the internal
// lifecycle. Unknown statuses return false.
func (a *GelaprintAdapter) MapStatus(vendorStatus string) (print.OrderStatus, bool) {
	switch vendorStatus {
	case "draft":
		return print.OrderStatusDraft, true
	case "created":
		return print.OrderStatusPending, true
	case "passed":
		return print.OrderStatusProcessing, true
	case "in_production", "printed":
		return print.OrderStatusPrinting, true
	case "shipped":
		return print.OrderStatusShipped, true
	case "delivered":
		return print.OrderStatusDelivered, true
	case "canceled":
		return print.OrderStatusCancelled, true
	case "failed":
		return print.OrderStatusFailed, true
	}
	return "", false
}

func (a *GelaprintAdapter) get(ctx context.Context, path string) ([]byte, error) {
	return a.transport.do(ctx, func() (*http.Request, error) {
		httpReq, err := http.NewRequest(http.MethodGet, a.config.BaseURL+path, nil)
		if err != nil {
			return nil, err
		}
		a.setHeaders(httpReq)
		return httpReq, nil
	})
}

func (a *GelaprintAdapter) setHeaders(req *http.Request) {
	req.Header.Set("X-API-Key", a.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func (a *GelaprintAdapter) orderFromWire(body []byte, req *CreateOrderRequest) (*print.PrintOrder, error) {
	var wire gelaOrder
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("gelaprint: failed to parse order: %w", err)
	}
	if wire.ID == "" {
		return nil, fmt.Errorf("gelaprint: order response has no ID")
	}

	status, ok := a.MapStatus(wire.FulfillmentStatus)
	if !ok {
		status = print.OrderStatusPending
	}

	order := &print.PrintOrder{
		ID:              uuid.New(),
		Provider:        print.ProviderGelaprint,
		ProviderOrderID: wire.ID,
		Status:          status,
		CreatedAt:       wire.CreatedAt,
		UpdatedAt:       time.Now(),
	}
	if req != nil && len(req.Items) > 0 {
		order.ProductID = req.Items[0].ProductID
		order.Quantity = req.Items[0].Quantity
		order.FileURL = req.Items[0].FileURL
	} else if len(wire.Items) > 0 {
		order.ProductID = wire.Items[0].ProductUID
		order.Quantity = wire.Items[0].Quantity
		if len(wire.Items[0].Files) > 0 {
			order.FileURL = wire.Items[0].Files[0].URL
		}
	}
	if wire.Receipt != nil {
		order.SetCost(print.OrderCost{
			Currency: wire.Receipt.Currency,
			Subtotal: parseDecimal(wire.Receipt.ProductsCost),
			Shipping: parseDecimal(wire.Receipt.ShippingCost),
			Tax:      parseDecimal(wire.Receipt.TaxCost),
			Total:    parseDecimal(wire.Receipt.TotalCost),
		})
	}
	if wire.Shipment != nil {
		order.SetTracking(print.TrackingInfo{
			Carrier:   wire.Shipment.Carrier,
			Number:    wire.Shipment.TrackingCode,
			URL:       wire.Shipment.TrackingURL,
			ShippedAt: wire.Shipment.ShippedAt,
		})
	}
	return order, nil
}

func toGelaAddress(r print.Recipient) gelaShippingAddress {
	return gelaShippingAddress{
		Name:         r.Name,
		AddressLine1: r.Address1,
		AddressLine2: r.Address2,
		City:         r.City,
		State:        r.StateCode,
		Country:      r.CountryCode,
		PostCode:     r.PostalCode,
		Email:        r.Email,
		Phone:        r.Phone,
	}
}

// Ensure GelaprintAdapter implements both provider interfaces
var (
	_ PrintProvider  = (*GelaprintAdapter)(nil)
	_ ShippingQuoter = (*GelaprintAdapter)(nil)
)
