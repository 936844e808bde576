package crontab

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/infrastructure/metrics"
)

type stubProber struct {
	failing map[model.ProviderKind]bool
	calls   atomic.Int32
}

func (s *stubProber) Kinds() []model.ProviderKind {
	return []model.ProviderKind{model.ProviderTogether, model.ProviderGemini, model.ProviderOpenAI}
}

func (s *stubProber) Probe(_ context.Context, kind model.ProviderKind) error {
	s.calls.Add(1)
	if s.failing[kind] {
		return errors.New("unreachable")
	}
	return nil
}

type stubRevocations struct{}

func (stubRevocations) PurgeRevoked() int { return 0 }

func TestProbeProvidersPublishesHealth(t *testing.T) {
	prober := &stubProber{failing: map[model.ProviderKind]bool{model.ProviderGemini: true}}
	c := NewCrontab(&config.Config{}, prober, stubRevocations{}, zerolog.Nop())

	unhealthy := c.ProbeProviders(context.Background())

	assert.Equal(t, 1, unhealthy)
	assert.EqualValues(t, 3, prober.calls.Load())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ProviderHealth.WithLabelValues(string(model.ProviderGemini))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ProviderHealth.WithLabelValues(string(model.ProviderTogether))))
}

func TestRunStopsOnCancel(t *testing.T) {
	prober := &stubProber{}
	c := NewCrontab(&config.Config{ProviderProbeEnabled: true, ProviderProbeIntervalMinutes: 30}, prober, stubRevocations{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	assert.Eventually(t, func() bool { return prober.calls.Load() == 3 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("crontab did not stop")
	}
}
