package authhandler

import (
	"context"

	"github.com/rs/zerolog"

	"medisage-api/internal/domain/user"
	"medisage-api/internal/infrastructure/auth"
	"medisage-api/internal/infrastructure/metrics"
	"medisage-api/internal/interfaces/httpserver/requests/authreq"
	"medisage-api/internal/interfaces/httpserver/responses/authres"
	"medisage-api/internal/utils/platformerrors"
)

type AuthHandler struct {
	users  *user.Service
	tokens *auth.TokenService
	log    zerolog.Logger
}

func NewAuthHandler(users *user.Service, tokens *auth.TokenService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		log:    log.With().Str("component", "auth-handler").Logger(),
	}
}

func (h *AuthHandler) Register(ctx context.Context, req authreq.RegisterRequest) (*authres.AuthResponse, error) {
	u, err := h.users.Register(ctx, user.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Name:     req.Name,
	})
	if err != nil {
		metrics.RecordAuthRequest("register", "failure")
		return nil, err
	}
	metrics.RecordAuthRequest("register", "success")
	return h.session(ctx, u)
}

func (h *AuthHandler) Login(ctx context.Context, req authreq.LoginRequest) (*authres.AuthResponse, error) {
	u, err := h.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		metrics.RecordAuthRequest("login", "failure")
		return nil, err
	}
	metrics.RecordAuthRequest("login", "success")
	return h.session(ctx, u)
}

// Logout revokes the presented token.
func (h *AuthHandler) Logout(principal *auth.Principal) {
	h.tokens.Revoke(principal)
	metrics.RecordAuthRequest("logout", "success")
}

// Status returns the account behind principal.
func (h *AuthHandler) Status(ctx context.Context, principal *auth.Principal) (*authres.UserResponse, error) {
	u, err := h.users.FindByID(ctx, principal.UserID)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeUnauthorized,
				"Not authenticated", err, "bf039170-ce8f-4204-d31e-af1419200fbb")
		}
		return nil, err
	}
	res := authres.NewUserResponse(u)
	return &res, nil
}

func (h *AuthHandler) session(ctx context.Context, u *user.User) (*authres.AuthResponse, error) {
	token, expiresAt, err := h.tokens.Issue(u)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", u.ID).Msg("failed to issue token")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeInternal,
			"Failed to create session", err, "c0142a81-df19-4315-e42f-b0252a311acc")
	}
	return &authres.AuthResponse{
		User:      authres.NewUserResponse(u),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
