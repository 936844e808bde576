package interfaces

import (
	"github.com/google/wire"

	"medisage-api/internal/infrastructure/auth"
	"medisage-api/internal/interfaces/httpserver"
	middleware "medisage-api/internal/interfaces/httpserver/middlewares"
	"medisage-api/internal/interfaces/httpserver/routes"
)

var InterfacesProvider = wire.NewSet(
	routes.RouteProvider,
	wire.Bind(new(middleware.TokenParser), new(*auth.TokenService)),
	httpserver.NewHttpServer,
)
