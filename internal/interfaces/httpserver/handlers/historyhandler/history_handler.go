package historyhandler

import (
	"context"

	"medisage-api/internal/domain/history"
	"medisage-api/internal/interfaces/httpserver/requests/historyreq"
	"medisage-api/internal/interfaces/httpserver/responses"
	"medisage-api/internal/interfaces/httpserver/responses/historyres"
	"medisage-api/internal/utils/platformerrors"
)

type HistoryHandler struct {
	gateway *history.Gateway
}

func NewHistoryHandler(gateway *history.Gateway) *HistoryHandler {
	return &HistoryHandler{gateway: gateway}
}

// SaveItem sets the saved flag on one of the caller's items.
func (h *HistoryHandler) SaveItem(ctx context.Context, userID uint, req historyreq.SaveItemRequest) (*historyres.HistoryItemResponse, error) {
	kind, err := history.ParseKind(req.ItemType)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"Invalid item type", err, "aef28069-bd7e-41f3-c20d-9e03081feeaa")
	}

	record, err := h.gateway.ToggleSaved(ctx, kind, req.ItemID, userID, *req.Saved)
	if err != nil {
		return nil, err
	}
	res := historyres.NewHistoryItemResponse(record)
	return &res, nil
}

// List returns one page of the caller's history.
func (h *HistoryHandler) List(ctx context.Context, userID uint, q *historyreq.ListQuery) (*responses.ListResponse[historyres.HistoryItemResponse], error) {
	records, total, err := h.gateway.ListForUser(ctx, history.Filter{
		UserID:    userID,
		Kind:      q.Kind,
		SavedOnly: q.SavedOnly,
	}, q.Pagination)
	if err != nil {
		return nil, err
	}
	return &responses.ListResponse[historyres.HistoryItemResponse]{
		Data:   historyres.NewHistoryItemResponses(records),
		Total:  total,
		Limit:  q.Pagination.Limit,
		Offset: q.Pagination.Offset,
	}, nil
}
