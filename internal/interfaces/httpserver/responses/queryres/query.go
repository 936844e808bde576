package queryres

import (
	"github.com/shopspring/decimal"

	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/query"
)

// Metadata reports which model produced a result.
type Metadata struct {
	ModelID          string           `json:"model_id"`
	Provider         string           `json:"provider"`
	Usage            *domain.Usage    `json:"usage,omitempty"`
	EstimatedCostUSD *decimal.Decimal `json:"estimated_cost_usd,omitempty"`
	LatencyMS        int64            `json:"latency_ms"`
}

func NewMetadata(meta query.Metadata) *Metadata {
	if meta.ModelID == "" {
		return nil
	}
	return &Metadata{
		ModelID:          meta.ModelID,
		Provider:         meta.Provider,
		Usage:            meta.Usage,
		EstimatedCostUSD: meta.EstimatedCostUSD,
		LatencyMS:        meta.Latency.Milliseconds(),
	}
}

type MedicalQueryResponse struct {
	Answer   string    `json:"answer"`
	Model    string    `json:"model"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

func NewMedicalQueryResponse(answer *query.TextAnswer) MedicalQueryResponse {
	return MedicalQueryResponse{
		Answer:   answer.Text,
		Model:    answer.Metadata.ModelID,
		Metadata: NewMetadata(answer.Metadata),
	}
}

type ConditionResponse struct {
	Name        string `json:"name"`
	Probability string `json:"probability"`
	Description string `json:"description"`
}

type SymptomCheckResponse struct {
	Conditions      []ConditionResponse `json:"conditions"`
	Recommendations []string            `json:"recommendations"`
	Model           string              `json:"model"`
	Metadata        *Metadata           `json:"metadata,omitempty"`
}

func NewSymptomCheckResponse(analysis *query.SymptomAnalysis) SymptomCheckResponse {
	conditions := make([]ConditionResponse, 0, len(analysis.Conditions))
	for _, c := range analysis.Conditions {
		conditions = append(conditions, ConditionResponse{Name: c.Name, Probability: c.Probability, Description: c.Description})
	}
	recommendations := analysis.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	return SymptomCheckResponse{
		Conditions:      conditions,
		Recommendations: recommendations,
		Model:           analysis.Metadata.ModelID,
		Metadata:        NewMetadata(analysis.Metadata),
	}
}

type MedicineScanResponse struct {
	Name       string    `json:"name"`
	PrimaryUse string    `json:"primaryUse"`
	CommonUses []string  `json:"commonUses"`
	Dosage     string    `json:"dosage"`
	Warnings   string    `json:"warnings"`
	Model      string    `json:"model"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

func NewMedicineScanResponse(info *query.MedicineInfo) MedicineScanResponse {
	uses := info.CommonUses
	if uses == nil {
		uses = []string{}
	}
	return MedicineScanResponse{
		Name:       info.Name,
		PrimaryUse: info.PrimaryUse,
		CommonUses: uses,
		Dosage:     info.Dosage,
		Warnings:   info.Warnings,
		Model:      info.Metadata.ModelID,
		Metadata:   NewMetadata(info.Metadata),
	}
}

type VoiceAssistantResponse struct {
	Answer     string         `json:"answer"`
	Action     string         `json:"action,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Model      string         `json:"model,omitempty"`
	Metadata   *Metadata      `json:"metadata,omitempty"`
}

func NewVoiceAssistantResponse(reply *query.VoiceReply) VoiceAssistantResponse {
	return VoiceAssistantResponse{
		Answer:     reply.Text,
		Action:     reply.SuggestedAction,
		Parameters: reply.Parameters,
		Model:      reply.Metadata.ModelID,
		Metadata:   NewMetadata(reply.Metadata),
	}
}
