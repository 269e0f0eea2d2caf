package providers

import "time"

// Wire types for the Gelaprint API. The vendor keys every order by the
// caller-supplied orderReferenceId, which doubles as the idempotency key.

type gelaProductsResponse struct {
	Products []gelaProduct `json:"products"`
}

type gelaProduct struct {
	ProductUID  string `json:"productUid"`
	Title       string `json:"title"`
	Variant     string `json:"variant"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
	Price       string `json:"price"`
}

func (p *gelaProduct) toDomain() ProviderProduct {
	return ProviderProduct{
		ID:          p.ProductUID,
		Name:        p.Title,
		Variant:     p.Variant,
		Description: p.Description,
		Currency:    p.Currency,
		Price:       parseDecimal(p.Price),
	}
}

type gelaCreateOrderRequest struct {
	OrderReferenceID string              `json:"orderReferenceId"`
	Items            []gelaOrderItem     `json:"items"`
	ShippingAddress  gelaShippingAddress `json:"shippingAddress"`
}

type gelaOrderItem struct {
	ProductUID string     `json:"productUid"`
	Quantity   int        `json:"quantity"`
	Files      []gelaFile `json:"files"`
}

type gelaFile struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type gelaShippingAddress struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country"`
	PostCode     string `json:"postCode"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type gelaOrder struct {
	ID                string          `json:"id"`
	OrderReferenceID  string          `json:"orderReferenceId"`
	FulfillmentStatus string          `json:"fulfillmentStatus"`
	Items             []gelaOrderItem `json:"items,omitempty"`
	Receipt           *gelaReceipt    `json:"receipt,omitempty"`
	Shipment          *gelaShipment   `json:"shipment,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type gelaReceipt struct {
	Currency     string `json:"currency"`
	ProductsCost string `json:"productsCost"`
	ShippingCost string `json:"shippingCost"`
	TaxCost      string `json:"taxCost"`
	TotalCost    string `json:"totalCost"`
}

type gelaShipment struct {
	Carrier      string     `json:"carrier"`
	TrackingCode string     `json:"trackingCode"`
	TrackingURL  string     `json:"trackingUrl"`
	ShippedAt    *time.Time `json:"shippedAt,omitempty"`
}

type gelaQuoteRequest struct {
	Items           []gelaQuoteItem     `json:"items"`
	ShippingAddress gelaShippingAddress `json:"shippingAddress"`
}

type gelaQuoteItem struct {
	ProductUID string `json:"productUid"`
	Quantity   int    `json:"quantity"`
}

type gelaQuoteResponse struct {
	Currency     string `json:"currency"`
	ProductsCost string `json:"productsCost"`
	ShippingCost string `json:"shippingCost"`
	TaxCost      string `json:"taxCost"`
	TotalCost    string `json:"totalCost"`
}
