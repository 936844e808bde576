package middlewares

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/domain/query"
	"medisage-api/internal/infrastructure/auth"
	"medisage-api/internal/infrastructure/metrics"
	"medisage-api/internal/interfaces/httpserver/responses"
	"medisage-api/internal/utils/platformerrors"
)

const principalContextKey = "principal"

// TokenParser resolves a bearer token into a principal.
type TokenParser interface {
	Parse(raw string) (*auth.Principal, error)
}

// AuthMiddleware resolves an optional principal from the Authorization header. Requests
// without a token, or with one that fails validation, continue anonymously.
func AuthMiddleware(tokens TokenParser, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		principal, err := tokens.Parse(raw)
		if err != nil {
			status := "invalid"
			if errors.Is(err, auth.ErrRevokedToken) {
				status = "revoked"
			}
			metrics.RecordAuthRequest("token", status)
			logger.Warn().
				Err(err).
				Str("path", c.FullPath()).
				Str("request_id", RequestIDFromContext(c)).
				Msg("bearer token rejected, continuing anonymously")
			c.Next()
			return
		}

		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// RequirePrincipal aborts with 401 unless AuthMiddleware resolved a principal.
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFromContext(c); !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "Not authenticated", "5d2a9c41-7e3b-4f86-a1c0-8b6e4d2f9a17")
			return
		}
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (*auth.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return nil, false
	}
	principal, ok := val.(*auth.Principal)
	return principal, ok && principal != nil
}

// CallerFromContext returns the query caller for the request. Anonymous requests run on defaultTier.
func CallerFromContext(c *gin.Context, defaultTier model.Tier) query.Caller {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return query.Caller{Tier: defaultTier}
	}
	userID := principal.UserID
	return query.Caller{UserID: &userID, Tier: principal.Tier}
}

// DefaultTier is the tier anonymous callers and unknown tier claims run on.
func DefaultTier(cfg *config.Config) model.Tier {
	tier, err := model.ParseTier(cfg.DefaultTier)
	if err != nil {
		return model.TierPersonal
	}
	return tier
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}
