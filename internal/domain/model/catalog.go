package model

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

type catalogDocument struct {
	Defaults map[string]string `yaml:"defaults"`
	Models   []catalogEntry    `yaml:"models"`
}

type catalogEntry struct {
	ID            string   `yaml:"id"`
	DisplayName   string   `yaml:"display_name"`
	Description   string   `yaml:"description"`
	Tier          string   `yaml:"tier"`
	Capabilities  []string `yaml:"capabilities"`
	Provider      string   `yaml:"provider"`
	UpstreamModel string   `yaml:"upstream_model"`
	VisionModel   string   `yaml:"vision_model"`
	Temperature   float32  `yaml:"temperature"`
	MaxTokens     int      `yaml:"max_tokens"`
	Pricing       struct {
		PromptPer1K     string `yaml:"prompt_per_1k"`
		CompletionPer1K string `yaml:"completion_per_1k"`
	} `yaml:"pricing"`
}

// LoadCatalog reads the catalog at path, or the built-in catalog when path is empty,
// and returns a validated Registry.
func LoadCatalog(path string) (*Registry, error) {
	data := builtinCatalog
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read model catalog %q: %w", path, err)
		}
		data = raw
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document into a Registry.
func ParseCatalog(data []byte) (*Registry, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	if len(doc.Models) == 0 {
		return nil, errors.New("model catalog is empty")
	}

	descriptors := make([]Descriptor, 0, len(doc.Models))
	for i, entry := range doc.Models {
		desc, err := entry.toDescriptor()
		if err != nil {
			return nil, fmt.Errorf("model catalog entry %d: %w", i, err)
		}
		descriptors = append(descriptors, desc)
	}

	defaults := make(map[Tier]string, len(doc.Defaults))
	for rawTier, id := range doc.Defaults {
		tier, err := ParseTier(rawTier)
		if err != nil {
			return nil, err
		}
		defaults[tier] = strings.TrimSpace(id)
	}

	return NewRegistry(descriptors, defaults)
}

func (e catalogEntry) toDescriptor() (Descriptor, error) {
	tier, err := ParseTier(e.Tier)
	if err != nil {
		return Descriptor{}, err
	}

	caps := make([]Capability, 0, len(e.Capabilities))
	for _, raw := range e.Capabilities {
		caps = append(caps, Capability(strings.TrimSpace(raw)))
	}

	pricing, err := parsePricing(e.Pricing.PromptPer1K, e.Pricing.CompletionPer1K)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", e.ID, err)
	}

	return Descriptor{
		ID:            strings.TrimSpace(e.ID),
		DisplayName:   e.DisplayName,
		Description:   e.Description,
		Tier:          tier,
		Capabilities:  caps,
		Provider:      ProviderKind(strings.TrimSpace(e.Provider)),
		UpstreamModel: e.UpstreamModel,
		VisionModel:   e.VisionModel,
		Temperature:   e.Temperature,
		MaxTokens:     e.MaxTokens,
		Pricing:       pricing,
	}, nil
}

func parsePricing(prompt, completion string) (Pricing, error) {
	var p Pricing
	var err error
	if prompt != "" {
		if p.PromptPer1K, err = decimal.NewFromString(prompt); err != nil {
			return Pricing{}, fmt.Errorf("invalid prompt price: %w", err)
		}
	}
	if completion != "" {
		if p.CompletionPer1K, err = decimal.NewFromString(completion); err != nil {
			return Pricing{}, fmt.Errorf("invalid completion price: %w", err)
		}
	}
	return p, nil
}
