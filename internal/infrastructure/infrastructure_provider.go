package infrastructure

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/infrastructure/auth"
	"medisage-api/internal/infrastructure/crontab"
	"medisage-api/internal/infrastructure/database"
	"medisage-api/internal/infrastructure/database/repository"
	inferenceinfra "medisage-api/internal/infrastructure/inference"
	"medisage-api/internal/infrastructure/logger"
)

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// ProvideModelRegistry loads the catalog file, or the built-in catalog when none is configured.
func ProvideModelRegistry(cfg *config.Config, log zerolog.Logger) (*model.Registry, error) {
	registry, err := model.LoadCatalog(cfg.ModelCatalogFile)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("models", len(registry.ListModels())).
		Str("catalog", cfg.ModelCatalogFile).
		Msg("model registry loaded")
	return registry, nil
}

// ProvideTokenService provides the JWT issuer/validator.
func ProvideTokenService(cfg *config.Config, log zerolog.Logger) (*auth.TokenService, error) {
	return auth.NewTokenService(context.Background(), cfg, log)
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	config.Load,

	// Logger
	logger.New,

	// Database
	ProvideDatabase,

	// Repositories
	repository.RepositoryProvider,

	// Model routing
	ProvideModelRegistry,
	model.NewRouter,

	// Provider adapters
	inferenceinfra.NewProviderSet,
	wire.Bind(new(inference.AdapterResolver), new(*inferenceinfra.ProviderSet)),
	wire.Bind(new(crontab.ProviderProber), new(*inferenceinfra.ProviderSet)),

	// Auth
	ProvideTokenService,
	wire.Bind(new(crontab.RevocationStore), new(*auth.TokenService)),

	// Crontab for provider probes and token cleanup
	crontab.NewCrontab,
)
