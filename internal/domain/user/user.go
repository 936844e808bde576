// Package user provides account registration and credential checks.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/utils/crypto"
	"medisage-api/internal/utils/platformerrors"
)

const RoleUser = "user"

// User is a registered account.
type User struct {
	ID           uint
	Username     string
	Email        string
	Name         *string
	PasswordHash string
	Role         string
	Tier         model.Tier
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName falls back to the username when no name was given.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Username
}

// Registration is a sign-up request.
type Registration struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,min=6,max=256"`
	Email    string `validate:"required,email"`
	Name     string `validate:"omitempty,max=128"`
}

// Repository defines storage operations for users.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

// Service registers and authenticates users.
type Service struct {
	repo        Repository
	defaultTier model.Tier
	validate    *validator.Validate
	log         zerolog.Logger
}

func NewService(cfg *config.Config, repo Repository, log zerolog.Logger) *Service {
	tier, err := model.ParseTier(cfg.DefaultTier)
	if err != nil {
		tier = model.TierPersonal
	}
	return &Service{
		repo:        repo,
		defaultTier: tier,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		log:         log.With().Str("component", "user-service").Logger(),
	}
}

// Register creates an account on the default tier.
func (s *Service) Register(ctx context.Context, reg Registration) (*User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)

	if err := s.validate.Struct(reg); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			registrationMessage(err), err, "1c4e7a2b-9d3f-4b60-8e15-a7c2d9f4b311")
	}

	existing, err := s.repo.FindByUsername(ctx, reg.Username)
	if err != nil && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up username")
	}
	if existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"Username already exists", nil, "2d5f8b3c-0e4a-4c71-9f26-b8d3e0a5c412")
	}

	hash, err := crypto.HashPassword(reg.Password)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"Failed to create user account", err, "3e6a9c4d-1f5b-4d82-a037-c9e4f1b6d513")
	}

	user := &User{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
		Role:         RoleUser,
		Tier:         s.defaultTier,
	}
	if reg.Name != "" {
		name := reg.Name
		user.Name = &name
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "Failed to create user account")
	}
	s.log.Info().Uint("user_id", user.ID).Str("tier", string(user.Tier)).Msg("user registered")
	return user, nil
}

// Authenticate returns the user when username and password match. Unknown users and
// wrong passwords produce the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	invalid := platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
		"Invalid credentials", nil, "4f7b0d5e-2a6c-4e93-b148-d0f5a2c7e614")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Username and password are required", nil, "5a8c1e6f-3b7d-4fa4-c259-e1a6b3d8f715")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, invalid
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "Authentication failed")
	}

	ok, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("stored password hash could not be verified")
		return nil, invalid
	}
	if !ok {
		return nil, invalid
	}

	if crypto.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, user, password)
	}
	return user, nil
}

func (s *Service) upgradeHash(ctx context.Context, user *User, password string) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return
	}
	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to upgrade legacy password hash")
		return
	}
	user.PasswordHash = hash
}

// FindByID loads a user by primary key.
func (s *Service) FindByID(ctx context.Context, id uint) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load user")
	}
	return user, nil
}

func registrationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Username, password, and email are required"
	}
	switch fe := verrs[0]; {
	case fe.Tag() == "required":
		return "Username, password, and email are required"
	case fe.Field() == "Username" && fe.Tag() == "min":
		return "Username must be at least 3 characters"
	case fe.Field() == "Password" && fe.Tag() == "min":
		return "Password must be at least 6 characters"
	case fe.Field() == "Email":
		return "Please provide a valid email address"
	default:
		return "Invalid " + strings.ToLower(fe.Field())
	}
}
