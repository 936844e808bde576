package models

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/interfaces/httpserver/handlers/modelhandler"
	middleware "medisage-api/internal/interfaces/httpserver/middlewares"
)

type ModelRoute struct {
	handler     *modelhandler.ModelHandler
	defaultTier model.Tier
}

func NewModelRoute(cfg *config.Config, handler *modelhandler.ModelHandler) *ModelRoute {
	return &ModelRoute{handler: handler, defaultTier: middleware.DefaultTier(cfg)}
}

func (route *ModelRoute) RegisterRouter(router gin.IRouter) {
	router.GET("/models", route.ListModels)
}

// ListModels
// @Summary List models for the caller's tier
// @Tags Models
// @Security BearerAuth
// @Produce json
// @Success 200 {object} modelres.ModelListResponse
// @Router /api/models [get]
func (route *ModelRoute) ListModels(reqCtx *gin.Context) {
	caller := middleware.CallerFromContext(reqCtx, route.defaultTier)
	reqCtx.JSON(http.StatusOK, route.handler.ListForTier(caller.Tier))
}
