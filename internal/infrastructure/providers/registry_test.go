package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/bookpress/backend/internal/domain/print"
)

func registryTestProvider(t *testing.T) PrintProvider {
	t.Helper()
	config := NewLumaprintsConfig("test-key")
	config.Limiter = rate.NewLimiter(rate.Inf, 1)
	adapter, err := NewLumaprintsAdapter(config)
	require.NoError(t, err)
	return adapter
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	provider := registryTestProvider(t)

	registry.Register(provider)

	got, err := registry.Get(print.ProviderLumaprints)
	require.NoError(t, err)
	assert.Equal(t, print.ProviderLumaprints, got.Code())
}

func TestRegistry_GetUnknown(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Get(print.ProviderGelaprint)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GELAPRINT")
}

func TestRegistry_Has(t *testing.T) {
	registry := NewRegistry()
	assert.False(t, registry.Has(print.ProviderLumaprints))

	registry.Register(registryTestProvider(t))
	assert.True(t, registry.Has(print.ProviderLumaprints))
}

func TestRegistry_RegisterNil(t *testing.T) {
	registry := NewRegistry()
	registry.Register(nil)
	assert.Empty(t, registry.Codes())
}

func TestRegistry_Codes(t *testing.T) {
	registry := NewRegistry()
	registry.Register(registryTestProvider(t))

	codes := registry.Codes()
	require.Len(t, codes, 1)
	assert.Equal(t, print.ProviderLumaprints, codes[0])
}
