package repository

import (
	"github.com/google/wire"

	"medisage-api/internal/infrastructure/database/repository/historyrepo"
	"medisage-api/internal/infrastructure/database/repository/userrepo"
)

var RepositoryProvider = wire.NewSet(
	userrepo.NewUserGormRepository,
	historyrepo.NewHistoryGormRepository,
)
