package providers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wire types for the Lumaprints API. Fields mirror the vendor's JSON and
// never leave this package.

type lumaProductsResponse struct {
	Products []lumaProduct `json:"products"`
}

type lumaProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Variant     string `json:"variant"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
	Price       string `json:"price"`
}

func (p *lumaProduct) toDomain() ProviderProduct {
	return ProviderProduct{
		ID:          p.ID,
		Name:        p.Name,
		Variant:     p.Variant,
		Description: p.Description,
		Currency:    p.Currency,
		Price:       parseDecimal(p.Price),
	}
}

type lumaCreateOrderRequest struct {
	ExternalID string          `json:"externalId"`
	Recipient  lumaRecipient   `json:"recipient"`
	Items      []lumaOrderItem `json:"items"`
}

type lumaRecipient struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	State       string `json:"state,omitempty"`
	CountryCode string `json:"countryCode"`
	Zip         string `json:"zip"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type lumaOrderItem struct {
	VariantID string     `json:"variantId"`
	Quantity  int        `json:"quantity"`
	Files     []lumaFile `json:"files"`
}

type lumaFile struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type lumaOrder struct {
	ID         string          `json:"id"`
	ExternalID string          `json:"externalId"`
	Status     string          `json:"status"`
	Costs      *lumaCosts      `json:"costs,omitempty"`
	Items      []lumaOrderItem `json:"items,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type lumaCosts struct {
	Currency string `json:"currency"`
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type lumaShipping struct {
	Carrier        string     `json:"carrier"`
	TrackingNumber string     `json:"trackingNumber"`
	TrackingURL    string     `json:"trackingUrl"`
	ShippedAt      *time.Time `json:"shippedAt,omitempty"`
}

// parseDecimal parses a vendor money string, zero on failure
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
