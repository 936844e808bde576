package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medisage-api/internal/interfaces/httpserver/routes/api/medical"
	"medisage-api/internal/interfaces/httpserver/routes/api/models"
	"medisage-api/internal/interfaces/httpserver/routes/api/user"
	"medisage-api/internal/interfaces/httpserver/routes/auth"
)

type APIRoute struct {
	medical *medical.MedicalRoute
	user    *user.UserRoute
	models  *models.ModelRoute
	auth    *auth.AuthRoute
}

func NewAPIRoute(
	medical *medical.MedicalRoute,
	user *user.UserRoute,
	models *models.ModelRoute,
	auth *auth.AuthRoute,
) *APIRoute {
	return &APIRoute{
		medical: medical,
		user:    user,
		models:  models,
		auth:    auth,
	}
}

// RegisterRouter mounts everything under /api. The router must already resolve the optional principal.
func (apiRoute *APIRoute) RegisterRouter(router gin.IRouter) {
	apiRouter := router.Group("/api")
	apiRouter.GET("/health", GetHealth)

	apiRoute.auth.RegisterRouter(apiRouter)
	apiRoute.medical.RegisterRouter(apiRouter)
	apiRoute.user.RegisterRouter(apiRouter)
	apiRoute.models.RegisterRouter(apiRouter)
}

// GetHealth
// @Summary Service health
// @Tags Server
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func GetHealth(reqCtx *gin.Context) {
	reqCtx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
