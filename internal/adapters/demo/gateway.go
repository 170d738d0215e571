package demo

import (
	"context"
	"time"

	"github.com/mikey/lead-outreach/internal/adapters/woodpecker"
	"github.com/mikey/lead-outreach/internal/core"
	"go.uber.org/zap"
)

// Gateway is the trial-mode implementation of core.CampaignGateway, used when
// no API credentials are configured. It fabricates a fixed campaign list and
// pretends every submission succeeds, so the surrounding system behaves
// identically in demo and live modes. It never performs network calls.
type Gateway struct {
	logger       *zap.Logger
	maxPerMinute int
}

// NewGateway creates a demo gateway. maxPerMinute is the configured request
// budget, reported untouched by Quota; zero or negative selects the platform
// default.
func NewGateway(logger *zap.Logger, maxPerMinute int) *Gateway {
	if maxPerMinute <= 0 {
		maxPerMinute = woodpecker.DefaultMaxPerMinute
	}
	return &Gateway{logger: logger, maxPerMinute: maxPerMinute}
}

// demoCampaigns is the built-in dataset returned in place of the remote list
var demoCampaigns = []core.Campaign{
	{ID: 101, Name: "SaaS Founders Q3", Status: core.CampaignStatusRunning, CreatedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), ProspectCount: 248},
	{ID: 102, Name: "Agency Owners Warm-up", Status: core.CampaignStatusActive, CreatedAt: time.Date(2025, 7, 14, 14, 30, 0, 0, time.UTC), ProspectCount: 87},
	{ID: 103, Name: "Conference Follow-ups", Status: core.CampaignStatusPaused, CreatedAt: time.Date(2025, 8, 1, 11, 15, 0, 0, time.UTC), ProspectCount: 412},
	{ID: 104, Name: "New Vertical Test", Status: core.CampaignStatusDraft, CreatedAt: time.Date(2025, 8, 20, 16, 45, 0, 0, time.UTC)},
}

// demoMembers simulates prospects already present in the demo campaigns so
// the duplicate pre-check has something to report
var demoMembers = []string{
	"jane.doe@acmecorp.example",
	"mfischer@initech.example",
}

// ListCampaigns returns the built-in demo dataset
func (g *Gateway) ListCampaigns(_ context.Context) ([]core.Campaign, error) {
	g.logger.Debug("Serving demo campaign list", zap.Int("campaigns", len(demoCampaigns)))
	out := make([]core.Campaign, len(demoCampaigns))
	copy(out, demoCampaigns)
	return out, nil
}

// AddProspects reports every prospect as accepted
func (g *Gateway) AddProspects(_ context.Context, _ int, prospects []core.Prospect, _ bool) (*core.AddProspectsResult, error) {
	result := &core.AddProspectsResult{StatusCode: "OK"}
	for _, p := range prospects {
		result.PerProspect = append(result.PerProspect, core.ProspectResult{
			Email:  p.Email(),
			Status: "OK",
		})
	}
	return result, nil
}

// CampaignProspects returns the canned membership list
func (g *Gateway) CampaignProspects(_ context.Context, _ int) ([]string, error) {
	out := make([]string, len(demoMembers))
	copy(out, demoMembers)
	return out, nil
}

// DetectTimezones is a no-op in demo mode
func (g *Gateway) DetectTimezones(_ context.Context, _ []int64) error {
	return nil
}

// Quota reports an untouched budget
func (g *Gateway) Quota() core.QuotaInfo {
	return core.QuotaInfo{RemainingRequests: g.maxPerMinute, MaxPerMinute: g.maxPerMinute}
}
