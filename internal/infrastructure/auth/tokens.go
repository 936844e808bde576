package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/domain/user"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID    uint
	Username  string
	Role      string
	Tier      model.Tier
	TokenID   string
	ExpiresAt time.Time
}

// Claims are the JWT claims issued and accepted by the service.
type Claims struct {
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	Tier     string `json:"tier,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues HS256 tokens and validates HS256 or JWKS-backed RS256 tokens.
type TokenService struct {
	secret      []byte
	issuer      string
	ttl         time.Duration
	defaultTier model.Tier
	jwks        *keyfunc.JWKS
	log         zerolog.Logger

	mu      sync.Mutex
	revoked map[string]time.Time
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewTokenService builds the token service. When JWKS_URL is set, the key set is fetched
// now and refreshed in the background until ctx ends.
func NewTokenService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*TokenService, error) {
	tier, err := model.ParseTier(cfg.DefaultTier)
	if err != nil {
		tier = model.TierPersonal
	}
	svc := &TokenService{
		secret:      []byte(cfg.JWTSecret),
		issuer:      cfg.JWTIssuer,
		ttl:         cfg.JWTTTL,
		defaultTier: tier,
		log:         log.With().Str("component", "auth-tokens").Logger(),
		revoked:     make(map[string]time.Time),
		entropy:     ulid.Monotonic(rand.Reader, 0),
		now:         time.Now,
	}
	if svc.ttl <= 0 {
		svc.ttl = 30 * 24 * time.Hour
	}

	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				svc.log.Error().Err(err).Msg("jwks refresh error")
			},
		})
		if err != nil {
			return nil, fmt.Errorf("load jwks: %w", err)
		}
		svc.jwks = jwks
	}
	return svc, nil
}

// Issue signs a token for u.
func (s *TokenService) Issue(u *user.User) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("token signing is disabled: JWT_SECRET is not set")
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		Username: u.Username,
		Role:     u.Role,
		Tier:     string(u.Tier),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.newTokenID(now),
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *TokenService) newTokenID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(now), s.entropy).String())
}

// Parse validates raw and returns the principal it carries.
func (s *TokenService) Parse(raw string) (*Principal, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingToken
	}

	var claims Claims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "RS256", "RS384", "RS512"}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" && s.jwks == nil {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(raw, &claims, s.keyFor, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	if s.isRevoked(claims.ID) {
		return nil, ErrRevokedToken
	}

	tier, err := model.ParseTier(claims.Tier)
	if err != nil {
		tier = s.defaultTier
	}
	principal := &Principal{
		UserID:   uint(id),
		Username: claims.Username,
		Role:     claims.Role,
		Tier:     tier,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal, nil
}

func (s *TokenService) keyFor(token *jwt.Token) (any, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(s.secret) == 0 {
			return nil, errors.New("hmac tokens are not accepted")
		}
		return s.secret, nil
	case *jwt.SigningMethodRSA:
		if s.jwks == nil {
			return nil, errors.New("rsa tokens require JWKS_URL")
		}
		return s.jwks.Keyfunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
}

// Revoke rejects the principal's token until it would have expired anyway.
func (s *TokenService) Revoke(p *Principal) {
	if p == nil || p.TokenID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	until := p.ExpiresAt
	if until.IsZero() {
		until = s.now().Add(s.ttl)
	}
	s.revoked[p.TokenID] = until
}

func (s *TokenService) isRevoked(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}

// PurgeRevoked forgets revocations whose tokens have expired. It returns the number removed.
func (s *TokenService) PurgeRevoked() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, id)
			removed++
		}
	}
	return removed
}

// Close stops background JWKS refreshes.
func (s *TokenService) Close() {
	if s.jwks != nil {
		s.jwks.EndBackground()
	}
}
