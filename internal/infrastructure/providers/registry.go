package providers

import (
	"fmt"
	"sync"

	"github.com/bookpress/backend/internal/domain/print"
)

// Registry manages PrintProvider implementations keyed by provider code.
// It provides a centralized way to look up providers when routing orders.
type Registry struct {
	mu        sync.RWMutex
	providers map[print.ProviderCode]PrintProvider
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[print.ProviderCode]PrintProvider),
	}
}

// Register adds a PrintProvider to the registry.
// If a provider with the same code already exists, it will be replaced.
func (r *Registry) Register(provider PrintProvider) {
	if provider == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Code()] = provider
}

// Get returns the PrintProvider for the given code.
// Returns an error if no provider is registered under that code.
func (r *Registry) Get(code print.ProviderCode) (PrintProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[code]
	if !ok {
		return nil, fmt.Errorf("no print provider registered for code: %s", code)
	}
	return provider, nil
}

// Has checks if a provider is registered for the given code.
func (r *Registry) Has(code print.ProviderCode) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[code]
	return ok
}

// Codes returns the codes of all registered providers.
func (r *Registry) Codes() []print.ProviderCode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]print.ProviderCode, 0, len(r.providers))
	for code := range r.providers {
		codes = append(codes, code)
	}
	return codes
}
