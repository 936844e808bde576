package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medisage-api/internal/interfaces/httpserver/handlers/authhandler"
	middleware "medisage-api/internal/interfaces/httpserver/middlewares"
	"medisage-api/internal/interfaces/httpserver/requests/authreq"
	"medisage-api/internal/interfaces/httpserver/responses"
	"medisage-api/internal/utils/platformerrors"
)

type AuthRoute struct {
	handler *authhandler.AuthHandler
}

func NewAuthRoute(handler *authhandler.AuthHandler) *AuthRoute {
	return &AuthRoute{handler: handler}
}

func (route *AuthRoute) RegisterRouter(router gin.IRouter) {
	authRouter := router.Group("/auth")
	authRouter.POST("/register", route.Register)
	authRouter.POST("/login", route.Login)
	authRouter.POST("/logout", middleware.RequirePrincipal(), route.Logout)
	authRouter.GET("/status", middleware.RequirePrincipal(), route.Status)
}

// Register
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body authreq.RegisterRequest true "Account"
// @Success 201 {object} authres.AuthResponse
// @Failure 400 {object} responses.ErrorResponse "Invalid registration"
// @Failure 409 {object} responses.ErrorResponse "Username already exists"
// @Router /api/auth/register [post]
func (route *AuthRoute) Register(reqCtx *gin.Context) {
	var req authreq.RegisterRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "Invalid request body", "3789b1f8-468c-4a8c-fb9c-c8c9ca8b9133")
		return
	}

	res, err := route.handler.Register(reqCtx.Request.Context(), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to create user account")
		return
	}
	reqCtx.JSON(http.StatusCreated, res)
}

// Login
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body authreq.LoginRequest true "Credentials"
// @Success 200 {object} authres.AuthResponse
// @Failure 400 {object} responses.ErrorResponse "Username and password are required"
// @Failure 401 {object} responses.ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (route *AuthRoute) Login(reqCtx *gin.Context) {
	var req authreq.LoginRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "Username and password are required", "489ac209-579d-4b9d-0cad-d9dadb9ca244")
		return
	}

	res, err := route.handler.Login(reqCtx.Request.Context(), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Authentication failed")
		return
	}
	reqCtx.JSON(http.StatusOK, res)
}

// Logout
// @Summary Revoke the current token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.MessageResponse
// @Failure 401 {object} responses.ErrorResponse "Not authenticated"
// @Router /api/auth/logout [post]
func (route *AuthRoute) Logout(reqCtx *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(reqCtx)
	route.handler.Logout(principal)
	reqCtx.JSON(http.StatusOK, responses.MessageResponse{Message: "Logged out successfully"})
}

// Status
// @Summary Current account
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} authres.UserResponse
// @Failure 401 {object} responses.ErrorResponse "Not authenticated"
// @Router /api/auth/status [get]
func (route *AuthRoute) Status(reqCtx *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(reqCtx)
	res, err := route.handler.Status(reqCtx.Request.Context(), principal)
	if err != nil {
		responses.HandleError(reqCtx, err, "Not authenticated")
		return
	}
	reqCtx.JSON(http.StatusOK, res)
}
