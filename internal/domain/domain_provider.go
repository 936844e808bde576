package domain

import (
	"github.com/google/wire"

	"medisage-api/internal/domain/history"
	"medisage-api/internal/domain/query"
	"medisage-api/internal/domain/user"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	// History
	history.NewGateway,
	wire.Bind(new(query.HistoryRecorder), new(*history.Gateway)),

	// Query orchestration
	query.NewOrchestrator,

	// Users
	user.NewService,
)
