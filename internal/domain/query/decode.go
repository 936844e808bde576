package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
)

// looseText accepts a string or a list of strings.
type looseText string

func (t *looseText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = looseText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = looseText(strings.Join(list, " "))
	return nil
}

// looseList accepts a list of strings or a single string.
type looseList []string

func (l *looseList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s = strings.TrimSpace(s); s != "" {
		*l = []string{s}
	}
	return nil
}

type medicinePayload struct {
	Name       string    `json:"name"`
	PrimaryUse string    `json:"primaryUse"`
	CommonUses looseList `json:"commonUses"`
	Dosage     looseText `json:"dosage"`
	Warnings   looseText `json:"warnings"`
}

type symptomPayload struct {
	Conditions      []Condition `json:"conditions"`
	Recommendations looseList   `json:"recommendations"`
}

type voicePayload struct {
	Action     string         `json:"action"`
	Response   string         `json:"response"`
	Parameters map[string]any `json:"parameters"`
}

func parseError(provider model.ProviderKind, raw json.RawMessage, err error) error {
	return &domain.ProviderParseError{Provider: provider, Raw: string(raw), Err: err}
}

func decodeSymptomAnalysis(v *validator.Validate, provider model.ProviderKind, raw json.RawMessage) (*SymptomAnalysis, error) {
	var payload symptomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, parseError(provider, raw, err)
	}
	out := &SymptomAnalysis{
		Conditions:      make([]Condition, 0, len(payload.Conditions)),
		Recommendations: []string(payload.Recommendations),
	}
	for _, c := range payload.Conditions {
		c.Name = strings.TrimSpace(c.Name)
		c.Probability = strings.ToLower(strings.TrimSpace(c.Probability))
		out.Conditions = append(out.Conditions, c)
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	if err := v.Struct(out); err != nil {
		return nil, parseError(provider, raw, fmt.Errorf("symptom analysis shape: %w", err))
	}
	return out, nil
}

func decodeMedicineInfo(v *validator.Validate, provider model.ProviderKind, raw json.RawMessage) (*MedicineInfo, error) {
	var payload medicinePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, parseError(provider, raw, err)
	}
	out := &MedicineInfo{
		Name:       strings.TrimSpace(payload.Name),
		PrimaryUse: payload.PrimaryUse,
		CommonUses: []string(payload.CommonUses),
		Dosage:     string(payload.Dosage),
		Warnings:   string(payload.Warnings),
	}
	if out.CommonUses == nil {
		out.CommonUses = []string{}
	}
	if err := v.Struct(out); err != nil {
		return nil, parseError(provider, raw, fmt.Errorf("medicine info shape: %w", err))
	}
	return out, nil
}

var voiceActions = map[string]bool{
	"medical-query": true,
	"symptom-check": true,
	"medicine-scan": true,
	"general-help":  true,
}

func decodeVoiceReply(v *validator.Validate, provider model.ProviderKind, raw json.RawMessage) (*VoiceReply, error) {
	var payload voicePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, parseError(provider, raw, err)
	}
	out := &VoiceReply{
		Text:            strings.TrimSpace(payload.Response),
		SuggestedAction: strings.ToLower(strings.TrimSpace(payload.Action)),
		Parameters:      payload.Parameters,
	}
	if !voiceActions[out.SuggestedAction] {
		out.SuggestedAction = "general-help"
	}
	if err := v.Struct(out); err != nil {
		return nil, parseError(provider, raw, fmt.Errorf("voice reply shape: %w", err))
	}
	return out, nil
}
