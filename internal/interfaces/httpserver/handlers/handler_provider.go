package handlers

import (
	"github.com/google/wire"

	"medisage-api/internal/interfaces/httpserver/handlers/authhandler"
	"medisage-api/internal/interfaces/httpserver/handlers/historyhandler"
	"medisage-api/internal/interfaces/httpserver/handlers/modelhandler"
	"medisage-api/internal/interfaces/httpserver/handlers/queryhandler"
)

var HandlerProvider = wire.NewSet(
	queryhandler.NewQueryHandler,
	historyhandler.NewHistoryHandler,
	authhandler.NewAuthHandler,
	modelhandler.NewModelHandler,
)
