package model

import (
	"errors"
	"testing"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("load builtin catalog: %v", err)
	}
	return reg
}

func TestSelectModelPersonalImageDenied(t *testing.T) {
	router := NewRouter(testRegistry(t))

	_, err := router.SelectModel(TierPersonal, CapabilityImageAnalysis)
	var denied *CapabilityDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected CapabilityDeniedError, got %v", err)
	}
	if denied.Tier != TierPersonal || denied.Capability != CapabilityImageAnalysis {
		t.Fatalf("unexpected denial payload: %+v", denied)
	}
}

func TestSelectModelPersonalVoiceDenied(t *testing.T) {
	router := NewRouter(testRegistry(t))

	if _, err := router.SelectModel(TierPersonal, CapabilityVoiceProcessing); !IsCapabilityDenied(err) {
		t.Fatalf("expected capability denial, got %v", err)
	}
}

func TestSelectModelPersonalTextUsesDefault(t *testing.T) {
	router := NewRouter(testRegistry(t))

	d, err := router.SelectModel(TierPersonal, CapabilityTextGeneration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != "mistral" {
		t.Fatalf("expected personal default mistral, got %s", d.ID)
	}
	if d.Tier != TierPersonal {
		t.Fatalf("personal request routed to %s tier", d.Tier)
	}
}

func TestSelectModelCorporateTextIsDeterministic(t *testing.T) {
	router := NewRouter(testRegistry(t))

	first, err := router.SelectModel(TierCorporate, CapabilityTextGeneration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		d, err := router.SelectModel(TierCorporate, CapabilityTextGeneration)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.ID != first.ID {
			t.Fatalf("selection changed from %s to %s on call %d", first.ID, d.ID, i)
		}
	}
	if first.ID != "gemini" {
		t.Fatalf("expected corporate default gemini, got %s", first.ID)
	}
}

func TestSelectModelFallsBackToFirstCapableModel(t *testing.T) {
	reg, err := NewRegistry([]Descriptor{
		{ID: "claude3", Tier: TierCorporate, Provider: ProviderAnthropic, UpstreamModel: "claude", Capabilities: []Capability{CapabilityTextGeneration}},
		{ID: "gpt4", Tier: TierCorporate, Provider: ProviderOpenAI, UpstreamModel: "gpt-4o", Capabilities: []Capability{CapabilityTextGeneration, CapabilityImageAnalysis}},
		{ID: "gemini", Tier: TierCorporate, Provider: ProviderGemini, UpstreamModel: "gemini-pro", Capabilities: []Capability{CapabilityTextGeneration, CapabilityImageAnalysis}},
	}, map[Tier]string{TierCorporate: "claude3"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	router := NewRouter(reg)

	d, err := router.SelectModel(TierCorporate, CapabilityImageAnalysis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != "gpt4" {
		t.Fatalf("expected first registered image model gpt4, got %s", d.ID)
	}
}

func TestSelectModelNoCandidateIsDenied(t *testing.T) {
	reg, err := NewRegistry([]Descriptor{
		{ID: "claude3", Tier: TierCorporate, Provider: ProviderAnthropic, UpstreamModel: "claude", Capabilities: []Capability{CapabilityTextGeneration}},
	}, nil)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if _, err := NewRouter(reg).SelectModel(TierCorporate, CapabilityImageAnalysis); !IsCapabilityDenied(err) {
		t.Fatalf("expected capability denial, got %v", err)
	}
	if _, err := NewRouter(reg).SelectModel(TierPersonal, CapabilityTextGeneration); !IsCapabilityDenied(err) {
		t.Fatalf("personal tier must not borrow corporate models, got %v", err)
	}
}

func TestSelectModelUnknownTier(t *testing.T) {
	router := NewRouter(testRegistry(t))

	_, err := router.SelectModel(Tier("enterprise"), CapabilityTextGeneration)
	if err == nil || IsCapabilityDenied(err) {
		t.Fatalf("expected validation error for unknown tier, got %v", err)
	}
}

func TestSelectPreferred(t *testing.T) {
	router := NewRouter(testRegistry(t))

	cases := []struct {
		name       string
		tier       Tier
		capability Capability
		modelID    string
		wantID     string
		wantDenied bool
	}{
		{name: "empty falls back to default", tier: TierPersonal, capability: CapabilityTextGeneration, wantID: "mistral"},
		{name: "same tier model honoured", tier: TierPersonal, capability: CapabilityTextGeneration, modelID: "llama3", wantID: "llama3"},
		{name: "corporate model on personal tier", tier: TierPersonal, capability: CapabilityTextGeneration, modelID: "gpt4", wantDenied: true},
		{name: "personal model on corporate tier", tier: TierCorporate, capability: CapabilityTextGeneration, modelID: "mistral", wantDenied: true},
		{name: "model without capability", tier: TierCorporate, capability: CapabilityImageAnalysis, modelID: "claude3", wantDenied: true},
		{name: "unknown model", tier: TierCorporate, capability: CapabilityTextGeneration, modelID: "nope", wantDenied: true},
		{name: "corporate image model", tier: TierCorporate, capability: CapabilityImageAnalysis, modelID: "gpt4", wantID: "gpt4"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := router.SelectPreferred(tc.tier, tc.capability, tc.modelID)
			if tc.wantDenied {
				if !IsCapabilityDenied(err) {
					t.Fatalf("expected denial, got model=%s err=%v", d.ID, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.ID != tc.wantID {
				t.Fatalf("expected %s, got %s", tc.wantID, d.ID)
			}
		})
	}
}
