package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-sapiens/nexus/internal/log"
)

func TestSetupReturnsShutdown(t *testing.T) {
	// Installs a global provider, so no t.Parallel.
	shutdown, err := Setup(context.Background(), Config{
		Endpoint:    "localhost:4318",
		Environment: "test",
		ServiceName: "nexus-test",
	}, log.NewNop())
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Collector is not running; shutdown must still return.
	_ = shutdown(ctx)
}

func TestSetupDefaultsEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, log.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
