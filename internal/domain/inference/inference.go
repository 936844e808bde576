// Package inference defines the contract between the query orchestrator and the upstream
// provider adapters.
package inference

import (
	"context"
	"encoding/json"

	"medisage-api/internal/domain/model"
)

// Task selects the system instruction an adapter injects.
type Task string

const (
	TaskMedicalAnswer          Task = "medical-answer"
	TaskSymptomAnalysis        Task = "symptom-analysis"
	TaskMedicineIdentification Task = "medicine-identification"
	TaskVoiceCommand           Task = "voice-command"
)

// Prompt is the provider-neutral request. Input is the user content only; the adapter
// adds role framing and disclaimers for Task.
type Prompt struct {
	Task       Task
	Input      string
	Structured bool
}

// ImageInput carries raw image bytes for multimodal calls.
type ImageInput struct {
	Data     []byte
	MimeType string
}

// Usage reports token accounting when the provider returns it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the normalized upstream reply. JSON is set only for structured prompts
// and always holds a single JSON object.
type Completion struct {
	Text  string
	JSON  json.RawMessage
	Usage *Usage
}

// Adapter speaks one upstream wire protocol.
type Adapter interface {
	Kind() model.ProviderKind
	GenerateText(ctx context.Context, prompt Prompt, m model.Descriptor) (*Completion, error)
	AnalyzeImage(ctx context.Context, image ImageInput, prompt Prompt, m model.Descriptor) (*Completion, error)
}

// AdapterResolver binds a model descriptor to the adapter for its provider.
type AdapterResolver interface {
	AdapterFor(m model.Descriptor) (Adapter, error)
}
