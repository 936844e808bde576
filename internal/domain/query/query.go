// Package query turns a user request into exactly one upstream model call and a typed result.
package query

import (
	"time"

	"github.com/shopspring/decimal"

	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
)

// Caller identifies who is asking and on which tier. UserID is nil for anonymous callers.
type Caller struct {
	UserID *uint
	Tier   model.Tier
}

// TextQuery is a free-form medical question.
type TextQuery struct {
	Caller
	Question string `validate:"required"`
	ModelID  string
}

// SymptomCheck asks for possible conditions behind a symptom description.
type SymptomCheck struct {
	Caller
	Symptoms              string `validate:"required"`
	AgeGroup              string
	Gender                string
	PreexistingConditions []string
	ModelID               string
}

// ImageQuery asks to identify a medicine from a photo.
type ImageQuery struct {
	Caller
	Image    []byte
	MimeType string
	ModelID  string
}

// VoiceCommand is a transcribed spoken request.
type VoiceCommand struct {
	Caller
	Transcript string `validate:"required"`
	ModelID    string
}

// Metadata describes how a result was produced. Usage and cost depend on the provider.
type Metadata struct {
	ModelID          string           `json:"model_id"`
	Provider         string           `json:"provider"`
	Usage            *domain.Usage    `json:"usage,omitempty"`
	EstimatedCostUSD *decimal.Decimal `json:"estimated_cost_usd,omitempty"`
	Latency          time.Duration    `json:"-"`
}

type TextAnswer struct {
	Text     string
	Metadata Metadata
}

// Condition is one possible diagnosis in a symptom analysis.
type Condition struct {
	Name        string `json:"name" validate:"required"`
	Probability string `json:"probability" validate:"required,oneof=high medium low"`
	Description string `json:"description"`
}

type SymptomAnalysis struct {
	Conditions      []Condition `json:"conditions" validate:"required,min=1,dive"`
	Recommendations []string    `json:"recommendations"`
	Metadata        Metadata    `json:"-"`
}

type MedicineInfo struct {
	Name       string   `json:"name" validate:"required"`
	PrimaryUse string   `json:"primaryUse"`
	CommonUses []string `json:"commonUses"`
	Dosage     string   `json:"dosage"`
	Warnings   string   `json:"warnings"`
	Metadata   Metadata `json:"-"`
}

// Voice actions returned to clients.
const (
	ActionSymptomChecker  = "symptom-checker"
	ActionUpgradePrompt   = "upgrade-prompt"
	ActionMedicalResponse = "medical-response"
)

type VoiceReply struct {
	Text            string         `json:"response" validate:"required"`
	SuggestedAction string         `json:"action"`
	Parameters      map[string]any `json:"parameters,omitempty"`
	Metadata        Metadata       `json:"-"`
}
