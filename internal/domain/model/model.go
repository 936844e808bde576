// Package model holds the immutable model catalog and the tier router that picks a model per request.
package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Tier is a subscription class. Tiers are disjoint catalogs.
type Tier string

const (
	TierPersonal  Tier = "personal"
	TierCorporate Tier = "corporate"
)

// ParseTier normalizes s into a Tier.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierPersonal:
		return TierPersonal, nil
	case TierCorporate:
		return TierCorporate, nil
	}
	return "", fmt.Errorf("unknown subscription tier %q", s)
}

func (t Tier) Valid() bool {
	return t == TierPersonal || t == TierCorporate
}

// Capability is a feature a model may support.
type Capability string

const (
	CapabilityTextGeneration  Capability = "text-generation"
	CapabilityImageAnalysis   Capability = "image-analysis"
	CapabilityVoiceProcessing Capability = "voice-processing"
)

func (c Capability) Valid() bool {
	switch c {
	case CapabilityTextGeneration, CapabilityImageAnalysis, CapabilityVoiceProcessing:
		return true
	}
	return false
}

// personalAllowances lists what the personal tier may ever be routed to.
var personalAllowances = map[Capability]bool{
	CapabilityTextGeneration: true,
}

// AllowedForTier reports whether capability c can ever be served on tier t.
func AllowedForTier(t Tier, c Capability) bool {
	if t == TierPersonal {
		return personalAllowances[c]
	}
	return t == TierCorporate
}

// ProviderKind identifies the upstream wire protocol serving a model.
type ProviderKind string

const (
	ProviderTogether  ProviderKind = "together"
	ProviderGemini    ProviderKind = "gemini"
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
)

func (k ProviderKind) Valid() bool {
	switch k {
	case ProviderTogether, ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return true
	}
	return false
}

// Pricing is the list price per 1K tokens in USD.
type Pricing struct {
	PromptPer1K     decimal.Decimal
	CompletionPer1K decimal.Decimal
}

// EstimateCost returns the USD cost of a call with the given token counts.
func (p Pricing) EstimateCost(promptTokens, completionTokens int) decimal.Decimal {
	thousand := decimal.NewFromInt(1000)
	prompt := p.PromptPer1K.Mul(decimal.NewFromInt(int64(promptTokens))).Div(thousand)
	completion := p.CompletionPer1K.Mul(decimal.NewFromInt(int64(completionTokens))).Div(thousand)
	return prompt.Add(completion).Round(6)
}

// Descriptor describes one routable model. Values are copied out of the registry, never shared.
type Descriptor struct {
	ID            string
	DisplayName   string
	Description   string
	Tier          Tier
	Capabilities  []Capability
	Provider      ProviderKind
	UpstreamModel string
	VisionModel   string
	Temperature   float32
	MaxTokens     int
	Pricing       Pricing
}

// Supports reports whether the model declares capability c.
func (d Descriptor) Supports(c Capability) bool {
	for _, have := range d.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// ModelFor returns the upstream model name to use for capability c.
func (d Descriptor) ModelFor(c Capability) string {
	if c == CapabilityImageAnalysis && d.VisionModel != "" {
		return d.VisionModel
	}
	return d.UpstreamModel
}

func (d Descriptor) clone() Descriptor {
	out := d
	out.Capabilities = append([]Capability(nil), d.Capabilities...)
	return out
}
