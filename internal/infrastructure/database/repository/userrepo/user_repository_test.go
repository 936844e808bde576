package userrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medisage-api/internal/domain/model"
	"medisage-api/internal/domain/user"
	"medisage-api/internal/infrastructure/database/dbtest"
	"medisage-api/internal/utils/platformerrors"
)

func TestCreateAndFind(t *testing.T) {
	repo := NewUserGormRepository(dbtest.Open(t))
	ctx := context.Background()

	name := "Alice A."
	u := &user.User{Username: "alice", Email: "alice@example.com", Name: &name, PasswordHash: "abc.def", Role: "user", Tier: model.TierCorporate}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, model.TierCorporate, byName.Tier)
	assert.Equal(t, "abc.def", byName.PasswordHash)
	assert.Equal(t, "Alice A.", byName.DisplayName())

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
}

func TestDuplicateUsernameIsConflict(t *testing.T) {
	repo := NewUserGormRepository(dbtest.Open(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &user.User{Username: "bob", Email: "b@example.com", PasswordHash: "h.s", Role: "user", Tier: model.TierPersonal}))
	err := repo.Create(ctx, &user.User{Username: "bob", Email: "b2@example.com", PasswordHash: "h.s", Role: "user", Tier: model.TierPersonal})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestFindMissing(t *testing.T) {
	repo := NewUserGormRepository(dbtest.Open(t))

	_, err := repo.FindByID(context.Background(), 404)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	_, err = repo.FindByUsername(context.Background(), "nobody")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestUpdatePasswordHash(t *testing.T) {
	repo := NewUserGormRepository(dbtest.Open(t))
	ctx := context.Background()

	u := &user.User{Username: "carol", Email: "c@example.com", PasswordHash: "$2a$old", Role: "user", Tier: model.TierPersonal}
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.UpdatePasswordHash(ctx, u.ID, "new.hash"))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new.hash", got.PasswordHash)
}
