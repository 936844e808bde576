package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medisage-api/internal/domain/model"
	"medisage-api/internal/infrastructure/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubParser struct {
	principal *auth.Principal
	err       error
}

func (s stubParser) Parse(raw string) (*auth.Principal, error) {
	if raw != "good" {
		if s.err != nil {
			return nil, s.err
		}
		return nil, auth.ErrInvalidToken
	}
	return s.principal, nil
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestAuthMiddlewareResolvesCaller(t *testing.T) {
	parser := stubParser{principal: &auth.Principal{UserID: 7, Tier: model.TierCorporate}}

	r := gin.New()
	r.Use(AuthMiddleware(parser, zerolog.Nop()))
	r.GET("/caller", func(c *gin.Context) {
		caller := CallerFromContext(c, model.TierPersonal)
		var userID uint
		if caller.UserID != nil {
			userID = *caller.UserID
		}
		c.JSON(http.StatusOK, gin.H{"tier": caller.Tier, "user_id": userID})
	})
	r.GET("/private", RequirePrincipal(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"authenticated caller", "/caller", "Bearer good", http.StatusOK, `{"tier":"corporate","user_id":7}`},
		{"anonymous caller", "/caller", "", http.StatusOK, `{"tier":"personal","user_id":0}`},
		{"invalid token continues anonymously", "/caller", "Bearer bad", http.StatusOK, `{"tier":"personal","user_id":0}`},
		{"private with token", "/private", "Bearer good", http.StatusNoContent, ""},
		{"private without token", "/private", "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareRevokedToken(t *testing.T) {
	parser := stubParser{err: auth.ErrRevokedToken}

	r := gin.New()
	r.Use(AuthMiddleware(parser, zerolog.Nop()))
	r.GET("/private", RequirePrincipal(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		origin      string
		allowOrigin string
		credentials string
	}{
		{"listed origin", []string{"http://localhost:3000"}, "http://localhost:3000", "http://localhost:3000", "true"},
		{"unlisted origin", []string{"http://localhost:3000"}, "http://evil.example", "", ""},
		{"wildcard", []string{"*"}, "http://anywhere.example", "*", ""},
		{"empty list", nil, "http://anywhere.example", "*", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORSMiddleware(tt.allowed))
			r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.allowOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.credentials, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestRequestIDEchoesIncomingHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Body.String())
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))
	assert.Len(t, rec.Body.String(), 36)
}
