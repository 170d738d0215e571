package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/lead-outreach/internal/adapters/demo"
	"github.com/mikey/lead-outreach/internal/adapters/woodpecker"
	"github.com/mikey/lead-outreach/internal/config"
	"github.com/mikey/lead-outreach/internal/core"
)

func TestCreateGatewayDemoWithoutKey(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	factory := NewGatewayFactory(cfg, zap.NewNop())

	gateway, err := factory.CreateGateway()
	require.NoError(t, err)
	assert.Equal(t, core.TransportDemo, gateway.Mode)
	assert.IsType(t, &demo.Gateway{}, gateway.Client)
	assert.Equal(t, 100, gateway.Quota.Quota().RemainingRequests)
}

func TestCreateGatewayDemoUsesConfiguredBudget(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("woodpecker.max_per_minute", 40)
	factory := NewGatewayFactory(config.NewFromViper(v), zap.NewNop())

	gateway, err := factory.CreateGateway()
	require.NoError(t, err)
	assert.Equal(t, core.TransportDemo, gateway.Mode)
	assert.Equal(t, 40, gateway.Quota.Quota().MaxPerMinute)
}

func TestCreateGatewayLiveWithKey(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("woodpecker.api_key", "wp-key-123")
	factory := NewGatewayFactory(config.NewFromViper(v), zap.NewNop())

	gateway, err := factory.CreateGateway()
	require.NoError(t, err)
	assert.Equal(t, core.TransportLive, gateway.Mode)
	assert.IsType(t, &woodpecker.Client{}, gateway.Client)
	assert.Equal(t, 100, gateway.Quota.Quota().MaxPerMinute)
}

func TestCreateGatewayInvalidTimeout(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("woodpecker.api_key", "wp-key-123")
	v.Set("woodpecker.timeout", "bogus")
	factory := NewGatewayFactory(config.NewFromViper(v), zap.NewNop())

	_, err := factory.CreateGateway()
	assert.Error(t, err)
}
