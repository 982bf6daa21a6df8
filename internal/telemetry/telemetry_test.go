package telemetry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown := Setup(context.Background(), Config{ServiceName: "carbonadmin"}, zerolog.Nop())

	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_WithEndpointReturnsShutdown(t *testing.T) {
	// The gRPC exporter connects lazily, so an unreachable endpoint is fine.
	shutdown := Setup(context.Background(), Config{
		ServiceName: "carbonadmin",
		Endpoint:    "127.0.0.1:1",
		Insecure:    true,
	}, zerolog.Nop())
	assert.NotNil(t, shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
