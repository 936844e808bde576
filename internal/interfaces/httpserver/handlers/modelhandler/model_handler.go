package modelhandler

import (
	"medisage-api/internal/domain/model"
	"medisage-api/internal/interfaces/httpserver/responses/modelres"
)

type ModelHandler struct {
	registry *model.Registry
}

func NewModelHandler(router *model.Router) *ModelHandler {
	return &ModelHandler{registry: router.Registry()}
}

// ListForTier lists the models a caller on tier may choose from.
func (h *ModelHandler) ListForTier(tier model.Tier) modelres.ModelListResponse {
	defaultID, _ := h.registry.DefaultFor(tier)
	return modelres.NewModelListResponse(tier, h.registry.ListForTier(tier), defaultID)
}
