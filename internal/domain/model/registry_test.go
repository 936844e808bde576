package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_Builtin(t *testing.T) {
	reg, err := LoadCatalog("")
	require.NoError(t, err)

	ids := make([]string, 0)
	for _, d := range reg.ListModels() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"mistral", "llama3", "gemini", "gpt4", "claude3"}, ids)

	gemini, err := reg.FindModel("gemini")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, gemini.Provider)
	assert.Equal(t, "gemini-pro-vision", gemini.ModelFor(CapabilityImageAnalysis))
	assert.Equal(t, "gemini-pro", gemini.ModelFor(CapabilityTextGeneration))
	assert.True(t, gemini.Pricing.CompletionPer1K.Equal(decimal.RequireFromString("0.0015")))

	for _, d := range reg.ListForTier(TierPersonal) {
		assert.Equal(t, []Capability{CapabilityTextGeneration}, d.Capabilities)
	}
}

func TestFindModel_NotFound(t *testing.T) {
	reg, err := LoadCatalog("")
	require.NoError(t, err)

	_, err = reg.FindModel("gpt5")
	require.ErrorIs(t, err, ErrModelNotFound)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	reg, err := LoadCatalog("")
	require.NoError(t, err)

	models := reg.ListModels()
	models[0].Capabilities[0] = CapabilityImageAnalysis
	models[0].ID = "mutated"

	again, err := reg.FindModel("mistral")
	require.NoError(t, err)
	assert.Equal(t, []Capability{CapabilityTextGeneration}, again.Capabilities)
}

func TestParseCatalog_Rejects(t *testing.T) {
	cases := map[string]string{
		"personal image model": `
models:
  - id: cheap
    tier: personal
    provider: together
    upstream_model: x
    capabilities: [text-generation, image-analysis]
`,
		"duplicate id": `
models:
  - {id: a, tier: corporate, provider: openai, upstream_model: x, capabilities: [text-generation]}
  - {id: a, tier: corporate, provider: openai, upstream_model: y, capabilities: [text-generation]}
`,
		"default in wrong tier": `
defaults: {personal: a}
models:
  - {id: a, tier: corporate, provider: openai, upstream_model: x, capabilities: [text-generation]}
`,
		"unknown provider": `
models:
  - {id: a, tier: corporate, provider: cohere, upstream_model: x, capabilities: [text-generation]}
`,
		"bad price": `
models:
  - id: a
    tier: corporate
    provider: openai
    upstream_model: x
    capabilities: [text-generation]
    pricing: {prompt_per_1k: "cheap"}
`,
		"empty": `models: []`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestPricing_EstimateCost(t *testing.T) {
	p := Pricing{
		PromptPer1K:     decimal.RequireFromString("0.005"),
		CompletionPer1K: decimal.RequireFromString("0.015"),
	}
	cost := p.EstimateCost(1200, 300)
	assert.Equal(t, "0.0105", cost.String())
}
