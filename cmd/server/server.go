package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/history"
	"medisage-api/internal/infrastructure/auth"
	"medisage-api/internal/infrastructure/crontab"
	"medisage-api/internal/infrastructure/logger"
	"medisage-api/internal/infrastructure/observability"
	"medisage-api/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HTTPServer
	crontab    *crontab.Crontab
	gateway    *history.Gateway
	tokens     *auth.TokenService
	cfg        *config.Config
	log        zerolog.Logger
}

// @title MediSage API
// @version 1.0
// @description Medical assistant backend: tier-routed model calls for questions, symptom checks, medicine scans and voice commands.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func (application *Application) Start(ctx context.Context) error {
	// The gateway outlives the HTTP server so records from in-flight requests are still written.
	gatewayCtx, stopGateway := context.WithCancel(context.Background())
	go application.gateway.Run(gatewayCtx)
	defer func() {
		stopGateway()
		application.gateway.Wait()
		application.tokens.Close()
	}()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return application.crontab.Run(ctx)
	})
	eg.Go(func() error {
		return application.httpServer.Run(ctx)
	})
	return eg.Wait()
}

func main() {
	loadEnvFiles()
	log := logger.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := CreateApplication()
	if err != nil {
		log.Fatal().Err(err).Msg("create application")
	}
	log = application.log

	otelShutdown, err := observability.Setup(ctx, application.cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), application.cfg.ShutdownTimeout)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	if err := application.Start(ctx); err != nil {
		log.Error().Err(err).Msg("application stopped with error")
		return
	}
	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
