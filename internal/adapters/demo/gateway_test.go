package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/lead-outreach/internal/core"
)

func TestDemoListCampaigns(t *testing.T) {
	g := NewGateway(zap.NewNop(), 0)

	campaigns, err := g.ListCampaigns(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, campaigns)

	// callers get a copy of the dataset
	campaigns[0].Name = "Mutated"
	again, err := g.ListCampaigns(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "Mutated", again[0].Name)
}

func TestDemoAddProspectsAcceptsEverything(t *testing.T) {
	g := NewGateway(zap.NewNop(), 0)

	result, err := g.AddProspects(context.Background(), 101, []core.Prospect{
		{"email": "a@x.example"},
		{"email": "b@x.example"},
	}, false)
	require.NoError(t, err)
	require.Len(t, result.PerProspect, 2)
	for _, entry := range result.PerProspect {
		assert.True(t, entry.Succeeded())
	}
}

func TestDemoCampaignProspects(t *testing.T) {
	g := NewGateway(zap.NewNop(), 0)

	emails, err := g.CampaignProspects(context.Background(), 101)
	require.NoError(t, err)
	assert.Contains(t, emails, "jane.doe@acmecorp.example")
}

func TestDemoQuotaNeverConsumed(t *testing.T) {
	g := NewGateway(zap.NewNop(), 0)

	require.NoError(t, g.DetectTimezones(context.Background(), []int64{1, 2}))
	assert.Equal(t, core.QuotaInfo{RemainingRequests: 100, MaxPerMinute: 100}, g.Quota())
}

func TestDemoQuotaReflectsConfiguredBudget(t *testing.T) {
	g := NewGateway(zap.NewNop(), 40)
	assert.Equal(t, core.QuotaInfo{RemainingRequests: 40, MaxPerMinute: 40}, g.Quota())
}
