package historyres

import (
	"encoding/json"
	"time"

	"medisage-api/internal/domain/history"
)

// HistoryItemResponse is one stored request/response pair.
type HistoryItemResponse struct {
	ID             uint            `json:"id"`
	ItemType       string          `json:"itemType"`
	RequestSummary string          `json:"request"`
	Result         json.RawMessage `json:"result" swaggertype:"object"`
	ModelID        string          `json:"model,omitempty"`
	Provider       string          `json:"provider,omitempty"`
	Saved          bool            `json:"saved"`
	Timestamp      time.Time       `json:"timestamp"`
}

func NewHistoryItemResponse(record *history.Record) HistoryItemResponse {
	result := record.Result
	if len(result) == 0 {
		result = json.RawMessage("null")
	}
	return HistoryItemResponse{
		ID:             record.ID,
		ItemType:       string(record.Kind),
		RequestSummary: record.RequestSummary,
		Result:         result,
		ModelID:        record.ModelID,
		Provider:       record.Provider,
		Saved:          record.Saved,
		Timestamp:      record.Timestamp,
	}
}

func NewHistoryItemResponses(records []*history.Record) []HistoryItemResponse {
	out := make([]HistoryItemResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewHistoryItemResponse(record))
	}
	return out
}
