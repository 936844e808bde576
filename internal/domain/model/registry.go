package model

import (
	"errors"
	"fmt"
)

// Registry is the process-wide model catalog. It is built once and never mutated,
// so it is safe for concurrent use without locks.
type Registry struct {
	models   []Descriptor
	byID     map[string]int
	defaults map[Tier]string
}

// NewRegistry validates descriptors and per-tier defaults and freezes them into a Registry.
func NewRegistry(descriptors []Descriptor, defaults map[Tier]string) (*Registry, error) {
	r := &Registry{
		models:   make([]Descriptor, 0, len(descriptors)),
		byID:     make(map[string]int, len(descriptors)),
		defaults: make(map[Tier]string, len(defaults)),
	}

	for _, d := range descriptors {
		if err := validateDescriptor(d); err != nil {
			return nil, err
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate model id %q", d.ID)
		}
		r.byID[d.ID] = len(r.models)
		r.models = append(r.models, d.clone())
	}

	for tier, id := range defaults {
		if id == "" {
			continue
		}
		idx, ok := r.byID[id]
		if !ok {
			return nil, fmt.Errorf("default model %q for tier %s is not registered", id, tier)
		}
		if r.models[idx].Tier != tier {
			return nil, fmt.Errorf("default model %q belongs to tier %s, not %s", id, r.models[idx].Tier, tier)
		}
		r.defaults[tier] = id
	}

	return r, nil
}

func validateDescriptor(d Descriptor) error {
	if d.ID == "" {
		return errors.New("model id is required")
	}
	if !d.Tier.Valid() {
		return fmt.Errorf("model %q: unknown tier %q", d.ID, d.Tier)
	}
	if !d.Provider.Valid() {
		return fmt.Errorf("model %q: unknown provider %q", d.ID, d.Provider)
	}
	if d.UpstreamModel == "" {
		return fmt.Errorf("model %q: upstream model is required", d.ID)
	}
	if len(d.Capabilities) == 0 {
		return fmt.Errorf("model %q: at least one capability is required", d.ID)
	}
	for _, c := range d.Capabilities {
		if !c.Valid() {
			return fmt.Errorf("model %q: unknown capability %q", d.ID, c)
		}
		if !AllowedForTier(d.Tier, c) {
			return fmt.Errorf("model %q: capability %s is not allowed on the %s tier", d.ID, c, d.Tier)
		}
	}
	return nil
}

// ListModels returns every registered model in registration order.
func (r *Registry) ListModels() []Descriptor {
	out := make([]Descriptor, len(r.models))
	for i, d := range r.models {
		out[i] = d.clone()
	}
	return out
}

// ListForTier returns the models registered for tier in registration order.
func (r *Registry) ListForTier(tier Tier) []Descriptor {
	var out []Descriptor
	for _, d := range r.models {
		if d.Tier == tier {
			out = append(out, d.clone())
		}
	}
	return out
}

// FindModel looks a model up by id.
func (r *Registry) FindModel(id string) (Descriptor, error) {
	idx, ok := r.byID[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	return r.models[idx].clone(), nil
}

// DefaultFor returns the configured default model id for tier, if any.
func (r *Registry) DefaultFor(tier Tier) (string, bool) {
	id, ok := r.defaults[tier]
	return id, ok
}
