package model

import (
	"errors"
	"fmt"
)

// Router selects the model serving a (tier, capability) pair. Tier is the only gate:
// a tier is only ever routed to its own catalog.
type Router struct {
	registry *Registry
}

func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// Registry exposes the catalog the router selects from.
func (r *Router) Registry() *Registry {
	return r.registry
}

// SelectModel picks the tier default when it supports capability, otherwise the first
// registered model of the tier that does. The choice depends only on registry state.
func (r *Router) SelectModel(tier Tier, capability Capability) (Descriptor, error) {
	if err := checkRequest(tier, capability); err != nil {
		return Descriptor{}, err
	}

	if id, ok := r.registry.DefaultFor(tier); ok {
		if d, err := r.registry.FindModel(id); err == nil && d.Supports(capability) {
			return d, nil
		}
	}

	for _, d := range r.registry.models {
		if d.Tier == tier && d.Supports(capability) {
			return d.clone(), nil
		}
	}

	return Descriptor{}, &CapabilityDeniedError{Tier: tier, Capability: capability}
}

// SelectPreferred honours an explicit model choice when it belongs to tier and supports
// capability. An empty modelID behaves like SelectModel.
func (r *Router) SelectPreferred(tier Tier, capability Capability, modelID string) (Descriptor, error) {
	if modelID == "" {
		return r.SelectModel(tier, capability)
	}
	if err := checkRequest(tier, capability); err != nil {
		return Descriptor{}, err
	}

	d, err := r.registry.FindModel(modelID)
	if err != nil {
		if errors.Is(err, ErrModelNotFound) {
			return Descriptor{}, &CapabilityDeniedError{Tier: tier, Capability: capability, ModelID: modelID}
		}
		return Descriptor{}, err
	}
	if d.Tier != tier || !d.Supports(capability) {
		return Descriptor{}, &CapabilityDeniedError{Tier: tier, Capability: capability, ModelID: modelID}
	}
	return d, nil
}

func checkRequest(tier Tier, capability Capability) error {
	if !tier.Valid() {
		return fmt.Errorf("unknown subscription tier %q", tier)
	}
	if !capability.Valid() {
		return fmt.Errorf("unknown capability %q", capability)
	}
	if !AllowedForTier(tier, capability) {
		return &CapabilityDeniedError{Tier: tier, Capability: capability}
	}
	return nil
}
