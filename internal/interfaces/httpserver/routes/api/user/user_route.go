package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medisage-api/internal/interfaces/httpserver/handlers/historyhandler"
	middleware "medisage-api/internal/interfaces/httpserver/middlewares"
	"medisage-api/internal/interfaces/httpserver/requests/historyreq"
	"medisage-api/internal/interfaces/httpserver/responses"
	"medisage-api/internal/utils/platformerrors"
)

type UserRoute struct {
	handler *historyhandler.HistoryHandler
}

func NewUserRoute(handler *historyhandler.HistoryHandler) *UserRoute {
	return &UserRoute{handler: handler}
}

func (route *UserRoute) RegisterRouter(router gin.IRouter) {
	userRouter := router.Group("/user", middleware.RequirePrincipal())
	userRouter.POST("/save-item", route.SaveItem)
	userRouter.GET("/medical-history", route.MedicalHistory)
}

// SaveItem
// @Summary Save or unsave a history item
// @Description Sets the saved flag on one of the caller's history items. Items owned by other users are reported as not found.
// @Tags User
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body historyreq.SaveItemRequest true "Item reference"
// @Success 200 {object} historyres.HistoryItemResponse
// @Failure 400 {object} responses.ErrorResponse "Invalid item reference"
// @Failure 401 {object} responses.ErrorResponse "Not authenticated"
// @Failure 404 {object} responses.ErrorResponse "item not found"
// @Failure 500 {object} responses.ErrorResponse "Failed to save item"
// @Router /api/user/save-item [post]
func (route *UserRoute) SaveItem(reqCtx *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(reqCtx)

	var req historyreq.SaveItemRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "itemType, itemId and saved are required", "2678a0e7-357f-497b-ea8b-b7b8b97a8022")
		return
	}

	res, err := route.handler.SaveItem(reqCtx.Request.Context(), principal.UserID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to save item")
		return
	}
	reqCtx.JSON(http.StatusOK, res)
}

// MedicalHistory
// @Summary List the caller's history
// @Description Newest first across all item types unless type is given.
// @Tags User
// @Security BearerAuth
// @Produce json
// @Param type query string false "Item type" Enums(medical-query, symptom-check, medicine-scan, voice-interaction)
// @Param saved query bool false "Only saved items"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} responses.ListResponse[historyres.HistoryItemResponse]
// @Failure 400 {object} responses.ErrorResponse "Invalid query"
// @Failure 401 {object} responses.ErrorResponse "Not authenticated"
// @Failure 500 {object} responses.ErrorResponse "Failed to load history"
// @Router /api/user/medical-history [get]
func (route *UserRoute) MedicalHistory(reqCtx *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(reqCtx)

	q, err := historyreq.GetListQuery(reqCtx)
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid query")
		return
	}

	res, err := route.handler.List(reqCtx.Request.Context(), principal.UserID, q)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to load history")
		return
	}
	reqCtx.JSON(http.StatusOK, res)
}
