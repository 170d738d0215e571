package factory

import (
	"github.com/mikey/lead-outreach/internal/adapters/demo"
	"github.com/mikey/lead-outreach/internal/adapters/woodpecker"
	"github.com/mikey/lead-outreach/internal/config"
	"github.com/mikey/lead-outreach/internal/core"
	"go.uber.org/zap"
)

// GatewayFactory creates the campaign platform gateway. The transport mode is
// decided here, once, based on whether an API key is configured — nothing
// downstream re-checks credentials.
type GatewayFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGatewayFactory creates a new gateway factory
func NewGatewayFactory(cfg *config.Config, logger *zap.Logger) *GatewayFactory {
	return &GatewayFactory{cfg: cfg, logger: logger}
}

// Gateway bundles the chosen transport with its mode and quota reporter
type Gateway struct {
	Client core.CampaignGateway
	Mode   core.TransportMode
	Quota  core.QuotaReporter
}

// CreateGateway creates the live client when an API key is configured and the
// demo gateway otherwise
func (f *GatewayFactory) CreateGateway() (*Gateway, error) {
	wpCfg := f.cfg.GetWoodpecker()

	if wpCfg.APIKey == "" {
		f.logger.Info("No platform API key configured, running in demo mode")
		client := demo.NewGateway(f.logger, wpCfg.MaxPerMinute)
		return &Gateway{Client: client, Mode: core.TransportDemo, Quota: client}, nil
	}

	timeout, err := f.cfg.GetDuration("woodpecker.timeout")
	if err != nil {
		return nil, err
	}

	limiter := woodpecker.NewRateLimiter(wpCfg.MaxPerMinute)
	client := woodpecker.NewClient(wpCfg.BaseURL, wpCfg.APIKey, timeout, limiter, f.logger)
	return &Gateway{Client: client, Mode: core.TransportLive, Quota: client}, nil
}
