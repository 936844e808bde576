package crontab

import (
	"context"
	"fmt"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/infrastructure/metrics"
	"medisage-api/internal/utils/platformerrors"
)

const (
	DefaultProbeInterval = 15              // in minutes
	CronJobTimeout       = 2 * time.Minute // Timeout for each cron job execution
	maxConcurrentProbes  = 4
)

// ProviderProber checks upstream reachability per provider kind.
type ProviderProber interface {
	Kinds() []model.ProviderKind
	Probe(ctx context.Context, kind model.ProviderKind) error
}

// RevocationStore forgets revoked token ids once they expire.
type RevocationStore interface {
	PurgeRevoked() int
}

type Crontab struct {
	ctab    *crontab.Crontab
	cfg     *config.Config
	prober  ProviderProber
	revoked RevocationStore
	log     zerolog.Logger
}

func NewCrontab(cfg *config.Config, prober ProviderProber, revoked RevocationStore, log zerolog.Logger) *Crontab {
	return &Crontab{
		ctab:    crontab.New(),
		cfg:     cfg,
		prober:  prober,
		revoked: revoked,
		log:     log.With().Str("component", "crontab").Logger(),
	}
}

// Run schedules the jobs and blocks until ctx is cancelled.
func (c *Crontab) Run(ctx context.Context) error {
	if c.cfg.ProviderProbeEnabled {
		// execute once on server start
		c.ProbeProviders(ctx)

		interval := c.cfg.ProviderProbeIntervalMinutes
		if interval <= 0 {
			interval = DefaultProbeInterval
		}
		cronExpr := fmt.Sprintf("*/%d * * * *", interval)
		if err := c.ctab.AddJob(cronExpr, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.ProbeProviders(jobCtx)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add provider probe job")
		}
		c.log.Info().Int("interval_minutes", interval).Msg("provider probe scheduled")
	}

	if err := c.ctab.AddJob("*/5 * * * *", func() {
		if purged := c.revoked.PurgeRevoked(); purged > 0 {
			c.log.Debug().Int("purged", purged).Msg("expired revoked tokens purged")
		}
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add token purge job")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

// ProbeProviders checks every provider concurrently and publishes the health gauge.
// It returns the number of unhealthy providers.
func (c *Crontab) ProbeProviders(ctx context.Context) int {
	kinds := c.prober.Kinds()
	healthy := make([]bool, len(kinds))

	var eg errgroup.Group
	eg.SetLimit(maxConcurrentProbes)
	for i, kind := range kinds {
		i, kind := i, kind
		eg.Go(func() error {
			err := c.prober.Probe(ctx, kind)
			healthy[i] = err == nil
			metrics.SetProviderHealth(string(kind), healthy[i])
			if err != nil {
				c.log.Warn().Err(err).Str("provider", string(kind)).Msg("provider probe failed")
			}
			return nil
		})
	}
	_ = eg.Wait()

	unhealthy := 0
	for _, ok := range healthy {
		if !ok {
			unhealthy++
		}
	}
	return unhealthy
}
