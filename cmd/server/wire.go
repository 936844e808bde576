//go:build wireinject

package main

import (
	"github.com/google/wire"

	"medisage-api/internal/domain"
	"medisage-api/internal/infrastructure"
	"medisage-api/internal/interfaces"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
