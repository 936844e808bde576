package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"medisage-api/internal/config"
)

func TestSplitEndpoint(t *testing.T) {
	endpoint, insecure := splitEndpoint("https://otel.example.com/")
	assert.Equal(t, "otel.example.com", endpoint)
	assert.False(t, insecure)

	endpoint, insecure = splitEndpoint("http://collector:4318")
	assert.Equal(t, "collector:4318", endpoint)
	assert.True(t, insecure)

	endpoint, insecure = splitEndpoint("collector:4318")
	assert.Equal(t, "collector:4318", endpoint)
	assert.True(t, insecure)
}

func TestParseHeaders(t *testing.T) {
	headers := parseHeaders("api-key=abc, x-team = core ,broken,=empty")
	assert.Equal(t, map[string]string{"api-key": "abc", "x-team": "core"}, headers)
	assert.Empty(t, parseHeaders(""))
}

func TestSetupWithoutEndpointProducesTraceIDs(t *testing.T) {
	cfg := &config.Config{ServiceName: "medisage-api", ServiceNamespace: "medisage", Environment: "test"}
	shutdown, err := Setup(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	ctx, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.NotEmpty(t, GetTraceID(ctx))
	RecordError(ctx, errors.New("boom"))
	span.End()

	assert.Empty(t, GetTraceID(context.Background()))
}
