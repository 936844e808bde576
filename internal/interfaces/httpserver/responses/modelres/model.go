package modelres

import (
	"medisage-api/internal/domain/model"
)

type ModelResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Tier         string   `json:"tier"`
	Provider     string   `json:"provider"`
	Capabilities []string `json:"capabilities"`
	Default      bool     `json:"default"`
}

type ModelListResponse struct {
	Tier   string          `json:"tier"`
	Models []ModelResponse `json:"models"`
}

func NewModelListResponse(tier model.Tier, descriptors []model.Descriptor, defaultID string) ModelListResponse {
	models := make([]ModelResponse, 0, len(descriptors))
	for _, d := range descriptors {
		capabilities := make([]string, 0, len(d.Capabilities))
		for _, c := range d.Capabilities {
			capabilities = append(capabilities, string(c))
		}
		models = append(models, ModelResponse{
			ID:           d.ID,
			Name:         d.DisplayName,
			Description:  d.Description,
			Tier:         string(d.Tier),
			Provider:     string(d.Provider),
			Capabilities: capabilities,
			Default:      d.ID == defaultID,
		})
	}
	return ModelListResponse{Tier: string(tier), Models: models}
}
