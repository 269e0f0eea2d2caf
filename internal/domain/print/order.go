package print

import (
	"time"

	"github.com/bookpress/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipient is the shipping destination of an order
type Recipient struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code,omitempty"`
	CountryCode string `json:"country_code"`
	PostalCode  string `json:"postal_code"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Validate checks the fields providers universally require
func (r Recipient) Validate() error {
	if r.Name == "" || r.Address1 == "" || r.City == "" || r.CountryCode == "" || r.PostalCode == "" {
		return shared.NewDomainError("INVALID_RECIPIENT",
			"Recipient requires name, address, city, country and postal code")
	}
	return nil
}

// OrderCost is the provider-quoted cost breakdown
type OrderCost struct {
	Currency string          `json:"currency"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// TrackingInfo is shipment tracking as reported by the provider
type TrackingInfo struct {
	Carrier   string     `json:"carrier"`
	Number    string     `json:"number"`
	URL       string     `json:"url,omitempty"`
	ShippedAt *time.Time `json:"shipped_at,omitempty"`
}

// PrintOrder is the internal view of one fulfillment order. Status moves only
// forward; CANCELLED and FAILED are terminal from any non-terminal state.
type PrintOrder struct {
	ID              uuid.UUID     `json:"id"`
	Provider        ProviderCode  `json:"provider"`
	ProviderOrderID string        `json:"provider_order_id"`
	ProductID       string        `json:"product_id"`
	Quantity        int           `json:"quantity"`
	FileURL         string        `json:"file_url"`
	Status          OrderStatus   `json:"status"`
	Tracking        *TrackingInfo `json:"tracking,omitempty"`
	Cost            *OrderCost    `json:"cost,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NewPrintOrder creates an order in draft state
func NewPrintOrder(provider ProviderCode, productID string, quantity int, fileURL string) (*PrintOrder, error) {
	if !provider.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER", "Unknown provider: "+string(provider))
	}
	if productID == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Quantity must be at least 1")
	}
	if fileURL == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Print file URL cannot be empty")
	}
	now := time.Now()
	return &PrintOrder{
		ID:        uuid.New(),
		Provider:  provider,
		ProductID: productID,
		Quantity:  quantity,
		FileURL:   fileURL,
		Status:    OrderStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyStatus records a provider-reported status. Reports of the current
// status are idempotent; backward transitions are rejected.
func (o *PrintOrder) ApplyStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(status))
	}
	if status == o.Status {
		return nil
	}
	if !o.Status.CanTransitionTo(status) {
		return shared.NewDomainError("INVALID_STATE",
			"Order cannot move from "+o.Status.String()+" to "+status.String())
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

// SetTracking attaches shipment tracking
func (o *PrintOrder) SetTracking(t TrackingInfo) {
	o.Tracking = &t
	o.UpdatedAt = time.Now()
}

// SetCost attaches the provider cost quote
func (o *PrintOrder) SetCost(c OrderCost) {
	o.Cost = &c
	o.UpdatedAt = time.Now()
}
