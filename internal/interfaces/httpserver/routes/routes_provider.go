package routes

import (
	"github.com/google/wire"

	"medisage-api/internal/interfaces/httpserver/handlers"
	"medisage-api/internal/interfaces/httpserver/routes/api"
	"medisage-api/internal/interfaces/httpserver/routes/api/medical"
	"medisage-api/internal/interfaces/httpserver/routes/api/models"
	"medisage-api/internal/interfaces/httpserver/routes/api/user"
	"medisage-api/internal/interfaces/httpserver/routes/auth"
)

var RouteProvider = wire.NewSet(
	// Handlers
	handlers.HandlerProvider,

	// Routes
	auth.NewAuthRoute,
	medical.NewMedicalRoute,
	user.NewUserRoute,
	models.NewModelRoute,
	api.NewAPIRoute,
)
