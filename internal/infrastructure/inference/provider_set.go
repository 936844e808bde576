package inference

import (
	"context"
	"fmt"

	"medisage-api/internal/config"
	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
)

// Prober is implemented by adapters that can cheaply check upstream reachability.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProviderSet owns one adapter per provider kind and resolves them by descriptor.
type ProviderSet struct {
	adapters map[model.ProviderKind]domain.Adapter
}

// NewProviderSet builds adapters for every provider from configuration.
func NewProviderSet(cfg *config.Config) *ProviderSet {
	return NewProviderSetFrom(
		NewTogetherAdapter(cfg.TogetherBaseURL, cfg.TogetherAPIKey, cfg.ProviderTimeout),
		NewGeminiAdapter(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.ProviderTimeout),
		NewOpenAIAdapter(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ProviderTimeout),
		NewAnthropicAdapter(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.ProviderTimeout),
	)
}

// NewProviderSetFrom registers the given adapters, later ones replacing earlier ones of the same kind.
func NewProviderSetFrom(adapters ...domain.Adapter) *ProviderSet {
	set := &ProviderSet{adapters: make(map[model.ProviderKind]domain.Adapter, len(adapters))}
	for _, adapter := range adapters {
		set.adapters[adapter.Kind()] = adapter
	}
	return set
}

// AdapterFor returns the adapter serving the descriptor's provider.
func (s *ProviderSet) AdapterFor(m model.Descriptor) (domain.Adapter, error) {
	adapter, ok := s.adapters[m.Provider]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for provider %q (model %s)", m.Provider, m.ID)
	}
	return adapter, nil
}

// Kinds lists the registered provider kinds.
func (s *ProviderSet) Kinds() []model.ProviderKind {
	kinds := make([]model.ProviderKind, 0, len(s.adapters))
	for kind := range s.adapters {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Probe checks one provider. Adapters without a probe are reported healthy.
func (s *ProviderSet) Probe(ctx context.Context, kind model.ProviderKind) error {
	adapter, ok := s.adapters[kind]
	if !ok {
		return fmt.Errorf("no adapter registered for provider %q", kind)
	}
	prober, ok := adapter.(Prober)
	if !ok {
		return nil
	}
	return prober.Probe(ctx)
}

var _ domain.AdapterResolver = (*ProviderSet)(nil)
