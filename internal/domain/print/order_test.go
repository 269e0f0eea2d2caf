package print

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrintOrder(t *testing.T) {
	order, err := NewPrintOrder(ProviderLumaprints, "prod-8x8-hc", 1, "https://files.example.com/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDraft, order.Status)
	assert.NotEqual(t, "", order.ID.String())

	tests := []struct {
		name      string
		provider  ProviderCode
		productID string
		quantity  int
		fileURL   string
	}{
		{"unknown provider", ProviderCode("VISTAPRINT"), "p", 1, "u"},
		{"empty product", ProviderLumaprints, "", 1, "u"},
		{"zero quantity", ProviderLumaprints, "p", 0, "u"},
		{"empty file url", ProviderLumaprints, "p", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPrintOrder(tt.provider, tt.productID, tt.quantity, tt.fileURL)
			assert.Error(t, err)
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusDraft, OrderStatusPending, true},
		{OrderStatusDraft, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusPrinting, true},
		{OrderStatusPrinting, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusPrinting, false},
		{OrderStatusPending, OrderStatusDraft, false},
		{OrderStatusPrinting, OrderStatusCancelled, true},
		{OrderStatusPrinting, OrderStatusFailed, true},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusFailed, OrderStatusFailed, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPrintOrder_ApplyStatus(t *testing.T) {
	order, err := NewPrintOrder(ProviderGelaprint, "prod", 1, "url")
	require.NoError(t, err)

	require.NoError(t, order.ApplyStatus(OrderStatusPending))
	require.NoError(t, order.ApplyStatus(OrderStatusPrinting))

	// Re-reporting the current status is idempotent
	require.NoError(t, order.ApplyStatus(OrderStatusPrinting))

	// Backward transition is rejected and leaves the order unchanged
	err = order.ApplyStatus(OrderStatusPending)
	assert.Error(t, err)
	assert.Equal(t, OrderStatusPrinting, order.Status)

	err = order.ApplyStatus(OrderStatus("LOST"))
	assert.Error(t, err)

	require.NoError(t, order.ApplyStatus(OrderStatusCancelled))
	assert.True(t, order.Status.IsTerminal())
	assert.Error(t, order.ApplyStatus(OrderStatusShipped))
}

func TestRecipient_Validate(t *testing.T) {
	valid := Recipient{
		Name:        "Jo Reader",
		Address1:    "1 Book Lane",
		City:        "Leipzig",
		CountryCode: "DE",
		PostalCode:  "04103",
	}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.PostalCode = ""
	assert.Error(t, missing.Validate())
}

func TestPrintOrder_SetCostAndTracking(t *testing.T) {
	order, err := NewPrintOrder(ProviderLumaprints, "prod", 2, "url")
	require.NoError(t, err)

	order.SetCost(OrderCost{
		Currency: "USD",
		Subtotal: decimal.NewFromFloat(39.90),
		Shipping: decimal.NewFromFloat(5.99),
		Total:    decimal.NewFromFloat(45.89),
	})
	require.NotNil(t, order.Cost)
	assert.True(t, order.Cost.Total.Equal(decimal.NewFromFloat(45.89)))

	order.SetTracking(TrackingInfo{Carrier: "UPS", Number: "1Z999"})
	require.NotNil(t, order.Tracking)
	assert.Equal(t, "UPS", order.Tracking.Carrier)
}
