package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	campaigns []Campaign
	err       error
	getCalls  int
	clears    int
	lastForce bool
}

func (c *fakeCatalog) Get(_ context.Context, forceRefresh bool) ([]Campaign, error) {
	c.getCalls++
	c.lastForce = forceRefresh
	return c.campaigns, c.err
}

func (c *fakeCatalog) Clear() { c.clears++ }

type fakeQuota struct{ info QuotaInfo }

func (q fakeQuota) Quota() QuotaInfo { return q.info }

func newTestOutreachService(gateway CampaignGateway, catalog CampaignCatalog, quota QuotaReporter) *OutreachService {
	logger := zap.NewNop()
	exporter := NewExportService(gateway, logger, TransportLive, 0, time.Millisecond, time.Millisecond)
	detector := NewDuplicateDetector(gateway, logger)
	return NewOutreachService(exporter, detector, catalog, quota, logger)
}

func TestGetCampaignsDelegatesToCatalog(t *testing.T) {
	catalog := &fakeCatalog{campaigns: []Campaign{{ID: 7, Name: "Q3 Outbound"}}}
	svc := newTestOutreachService(newFakeGateway(), catalog, fakeQuota{})

	campaigns, err := svc.GetCampaigns(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, catalog.campaigns, campaigns)
	assert.True(t, catalog.lastForce)
	assert.Equal(t, 1, catalog.getCalls)
}

func TestAddProspectsClearsCacheAfterExport(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := newTestOutreachService(newFakeGateway(), catalog, fakeQuota{})

	progress, err := svc.AddProspectsToCampaign(context.Background(), makeProspects(3), 42, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.Succeeded)
	assert.Equal(t, 1, catalog.clears)
}

func TestAddProspectsKeepsCacheWhenNothingSubmitted(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := newTestOutreachService(newFakeGateway(), catalog, fakeQuota{})

	_, err := svc.AddProspectsToCampaign(context.Background(), nil, 42, nil)
	require.NoError(t, err)
	assert.Zero(t, catalog.clears)
}

func TestAddProspectsClearsCacheOnPartialRun(t *testing.T) {
	gateway := newFakeGateway()
	gateway.addFunc = func(int, []Prospect) (*AddProspectsResult, error) {
		return nil, errors.New("boom")
	}
	catalog := &fakeCatalog{}
	svc := newTestOutreachService(gateway, catalog, fakeQuota{})

	progress, err := svc.AddProspectsToCampaign(context.Background(), makeProspects(3), 42, nil)
	require.NoError(t, err)
	// prospects were processed (all failed), so the cached counts are stale
	assert.Equal(t, 3, progress.Failed)
	assert.Equal(t, 1, catalog.clears)
}

func TestClearCampaignCache(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := newTestOutreachService(newFakeGateway(), catalog, fakeQuota{})

	svc.ClearCampaignCache()
	assert.Equal(t, 1, catalog.clears)
}

func TestGetQuotaInfo(t *testing.T) {
	quota := fakeQuota{info: QuotaInfo{RequestCount: 12, RemainingRequests: 88, MaxPerMinute: 100}}
	svc := newTestOutreachService(newFakeGateway(), &fakeCatalog{}, quota)

	assert.Equal(t, quota.info, svc.GetQuotaInfo())
}
