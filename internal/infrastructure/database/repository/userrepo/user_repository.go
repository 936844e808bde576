package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"medisage-api/internal/domain/user"
	"medisage-api/internal/infrastructure/database/dbschema"
	"medisage-api/internal/utils/platformerrors"
)

type UserGormRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*UserGormRepository)(nil)

func NewUserGormRepository(db *gorm.DB) user.Repository {
	return &UserGormRepository{db: db}
}

func (repo *UserGormRepository) Create(ctx context.Context, u *user.User) error {
	entity := dbschema.NewSchemaUser(u)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
				"Username already exists", err, "6b9d2f7a-4c8e-4a15-d36a-f2b7c4e9a816")
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create user", err, "7c0e3a8b-5d9f-4b26-e47b-a3c8d5f0b917")
	}
	*u = *entity.EtoD()
	return nil
}

func (repo *UserGormRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var entity dbschema.User
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	return repo.result(ctx, &entity, err, "8d1f4b9c-6e0a-4c37-f58c-b4d9e6a1ca18")
}

func (repo *UserGormRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var entity dbschema.User
	err := repo.db.WithContext(ctx).
		Where("username = ?", username).
		First(&entity).
		Error
	return repo.result(ctx, &entity, err, "9e2a5c0d-7f1b-4d48-a69d-c5e0f7b2db19")
}

func (repo *UserGormRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	result := repo.db.WithContext(ctx).
		Model(&dbschema.User{}).
		Where("id = ?", id).
		Update("password", hash)
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update password", result.Error, "a03b6d1e-8a2c-4e59-b7ae-d6f1a8c3ec20")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"user not found", nil, "b14c7e2f-9b3d-4f6a-c8bf-e7a2b9d4fd21")
	}
	return nil
}

func (repo *UserGormRepository) result(ctx context.Context, entity *dbschema.User, err error, code string) (*user.User, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"user not found", err, code)
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find user", err, code)
	}
	return entity.EtoD(), nil
}
