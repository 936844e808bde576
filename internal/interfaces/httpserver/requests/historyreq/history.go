package historyreq

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"medisage-api/internal/domain/history"
	"medisage-api/internal/utils/platformerrors"
)

// SaveItemRequest flips the saved flag on one history item.
type SaveItemRequest struct {
	ItemType string `json:"itemType" binding:"required"`
	ItemID   uint   `json:"itemId" binding:"required,gt=0"`
	Saved    *bool  `json:"saved" binding:"required"`
}

// ListQuery holds the parsed medical-history query string.
type ListQuery struct {
	Kind       *history.Kind
	SavedOnly  bool
	Pagination history.Pagination
}

// GetListQuery parses type, saved, limit and offset from the query string.
func GetListQuery(reqCtx *gin.Context) (*ListQuery, error) {
	ctx := reqCtx.Request.Context()
	out := &ListQuery{}

	if raw := reqCtx.Query("type"); raw != "" {
		kind, err := history.ParseKind(raw)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
				"invalid item type", err, "3e7b1f92-4c0d-4a8e-b5f6-2d9c8a1e7f33")
		}
		out.Kind = &kind
	}
	if raw := reqCtx.Query("saved"); raw != "" {
		saved, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
				"invalid saved flag", err, "4f8c2a03-5d1e-4b9f-c6a7-3eada2b8f044")
		}
		out.SavedOnly = saved
	}

	limit, err := strconv.Atoi(reqCtx.DefaultQuery("limit", strconv.Itoa(history.DefaultListLimit)))
	if err != nil || limit < 1 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"invalid limit number", err, "5a9d3b14-6e2f-4cae-d7b8-4fbeb3c9a055")
	}
	offset, err := strconv.Atoi(reqCtx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"invalid offset number", err, "6bae4c25-7f3a-4dbf-e8c9-5acfc4dab166")
	}
	out.Pagination = history.Pagination{Limit: limit, Offset: offset}.Normalize()
	return out, nil
}
