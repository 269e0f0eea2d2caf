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

// LumaprintsAdapter implements PrintProvider for the Lumaprints API.
// Authentication is a bearer token; order creation carries the idempotency
// key both as the vendor's externalId and as a request header.
type LumaprintsAdapter struct {
	config    *LumaprintsConfig
	transport *transport
	logger    *zap.Logger
}

// NewLumaprintsAdapter creates a new Lumaprints client
func NewLumaprintsAdapter(config *LumaprintsConfig) (*LumaprintsAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LumaprintsAdapter{
		config: config,
		transport: newTransport(print.ProviderLumaprints,
			time.Duration(config.TimeoutSeconds)*time.Second, config.Limiter, config.MaxRetries),
		logger: logger,
	}, nil
}

// Code returns the provider code this adapter handles
func (a *LumaprintsAdapter) Code() print.ProviderCode {
	return print.ProviderLumaprints
}

// ListProducts retrieves the orderable catalog
func (a *LumaprintsAdapter) ListProducts(ctx context.Context) ([]ProviderProduct, error) {
	body, err := a.get(ctx, "/products")
	if err != nil {
		return nil, err
	}
	var resp lumaProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lumaprints: failed to parse products: %w", err)
	}
	products := make([]ProviderProduct, 0, len(resp.Products))
	for i := range resp.Products {
		products = append(products, resp.Products[i].toDomain())
	}
	return products, nil
}

// GetProduct retrieves one catalog entry
func (a *LumaprintsAdapter) GetProduct(ctx context.Context, productID string) (*ProviderProduct, error) {
	body, err := a.get(ctx, "/products/"+productID)
	if err != nil {
		return nil, err
	}
	var wire lumaProduct
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("lumaprints: failed to parse product: %w", err)
	}
	product := wire.toDomain()
	return &product, nil
}

// CreateOrder submits a manufacturing order
func (a *LumaprintsAdapter) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*print.PrintOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := req.IdempotencyKey()
	wire := lumaCreateOrderRequest{
		ExternalID: key,
		Recipient: lumaRecipient{
			Name:        req.Recipient.Name,
			Address1:    req.Recipient.Address1,
			Address2:    req.Recipient.Address2,
			City:        req.Recipient.City,
			State:       req.Recipient.StateCode,
			CountryCode: req.Recipient.CountryCode,
			Zip:         req.Recipient.PostalCode,
			Email:       req.Recipient.Email,
			Phone:       req.Recipient.Phone,
		},
	}
	for _, item := range req.Items {
		wire.Items = append(wire.Items, lumaOrderItem{
			VariantID: item.ProductID,
			Quantity:  item.Quantity,
			Files:     []lumaFile{{URL: item.FileURL, Type: item.FileType}},
		})
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("lumaprints: failed to encode order: %w", err)
	}

	body, err := a.transport.do(ctx, func() (*http.Request, error) {
		httpReq, err := http.NewRequest(http.MethodPost, a.config.BaseURL+"/orders", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		a.setHeaders(httpReq)
		httpReq.Header.Set("Idempotency-Key", key)
		return httpReq, nil
	})
	if err != nil {
		return nil, err
	}

	order, err := a.orderFromWire(body, req)
	if err != nil {
		return nil, err
	}
	a.logger.Info("lumaprints order created",
		zap.String("provider_order_id", order.ProviderOrderID),
		zap.String("status", order.Status.String()))
	return order, nil
}

// GetOrder retrieves the provider's view of an order
func (a *LumaprintsAdapter) GetOrder(ctx context.Context, providerOrderID string) (*print.PrintOrder, error) {
	body, err := a.get(ctx, "/orders/"+providerOrderID)
	if err != nil {
		return nil, err
	}
	return a.orderFromWire(body, nil)
}

// ConfirmOrder releases a draft order into production
func (a *LumaprintsAdapter) ConfirmOrder(ctx context.Context, providerOrderID string) error {
	_, err := a.transport.do(ctx, func() (*http.Request, error) {
		httpReq, err := http.NewRequest(http.MethodPost, a.config.BaseURL+"/orders/"+providerOrderID+"/confirm", nil)
		if err != nil {
			return nil, err
		}
		a.setHeaders(httpReq)
		return httpReq, nil
	})
	return err
}

// CancelOrder cancels an order through the provider
func (a *LumaprintsAdapter) CancelOrder(ctx context.Context, providerOrderID string) error {
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

// Track retrieves shipment tracking for an order
func (a *LumaprintsAdapter) Track(ctx context.Context, providerOrderID string) (*print.TrackingInfo, error) {
	body, err := a.get(ctx, "/orders/"+providerOrderID+"/shipping")
	if err != nil {
		return nil, err
	}
	var wire lumaShipping
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("lumaprints: failed to parse shipping: %w", err)
	}
	return &print.TrackingInfo{
		Carrier:   wire.Carrier,
		Number:    wire.TrackingNumber,
		URL:       wire.TrackingURL,
		ShippedAt: wire.ShippedAt,
	}, nil
}

// MapStatus translates a Lumaprints status string into the internal
// lifecycle. Unknown statuses return false.
func (a *LumaprintsAdapter) MapStatus(vendorStatus string) (print.OrderStatus, bool) {
	switch vendorStatus {
	case "draft":
		return print.OrderStatusDraft, true
	case "pending":
		return print.OrderStatusPending, true
	case "onhold":
		return print.OrderStatusProcessing, true
	case "inprocess", "partial":
		return print.OrderStatusPrinting, true
	case "fulfilled":
		return print.OrderStatusShipped, true
	case "canceled":
		return print.OrderStatusCancelled, true
	case "failed":
		return print.OrderStatusFailed, true
	}
	return "", false
}

func (a *LumaprintsAdapter) get(ctx context.Context, path string) ([]byte, error) {
	return a.transport.do(ctx, func() (*http.Request, error) {
		httpReq, err := http.NewRequest(http.MethodGet, a.config.BaseURL+path, nil)
		if err != nil {
			return nil, err
		}
		a.setHeaders(httpReq)
		return httpReq, nil
	})
}

func (a *LumaprintsAdapter) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// orderFromWire builds the internal order view from a vendor order payload.
// The original create request, when available, supplies the item fields the
// vendor echoes incompletely.
func (a *LumaprintsAdapter) orderFromWire(body []byte, req *CreateOrderRequest) (*print.PrintOrder, error) {
	var wire lumaOrder
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("lumaprints: failed to parse order: %w", err)
	}
	if wire.ID == "" {
		return nil, fmt.Errorf("lumaprints: order response has no ID")
	}

	status, ok := a.MapStatus(wire.Status)
	if !ok {
		status = print.OrderStatusPending
	}

	order := &print.PrintOrder{
		ID:              uuid.New(),
		Provider:        print.ProviderLumaprints,
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
		order.ProductID = wire.Items[0].VariantID
		order.Quantity = wire.Items[0].Quantity
		if len(wire.Items[0].Files) > 0 {
			order.FileURL = wire.Items[0].Files[0].URL
		}
	}
	if wire.Costs != nil {
		order.SetCost(print.OrderCost{
			Currency: wire.Costs.Currency,
			Subtotal: parseDecimal(wire.Costs.Subtotal),
			Shipping: parseDecimal(wire.Costs.Shipping),
			Tax:      parseDecimal(wire.Costs.Tax),
			Total:    parseDecimal(wire.Costs.Total),
		})
	}
	return order, nil
}

// Ensure LumaprintsAdapter implements PrintProvider
var _ PrintProvider = (*LumaprintsAdapter)(nil)
