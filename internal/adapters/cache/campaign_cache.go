package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/lead-outreach/internal/core"
	"go.uber.org/zap"
)

// DefaultCampaignTTL bounds how stale a cached campaign list may get
const DefaultCampaignTTL = 5 * time.Minute

// entry is replaced wholesale on refresh, never partially mutated
type entry struct {
	campaigns []core.Campaign
	expiresAt time.Time
}

// CampaignCache is a time-bounded cache over the campaign list fetch. It is
// safe for concurrent use; the fetch itself is performed under the lock so a
// burst of callers triggers at most one refresh.
type CampaignCache struct {
	fetcher core.CampaignLister
	logger  *zap.Logger
	ttl     time.Duration

	mu    sync.Mutex
	entry *entry

	now func() time.Time
}

// NewCampaignCache creates a new campaign cache around fetcher. A zero ttl
// selects DefaultCampaignTTL.
func NewCampaignCache(fetcher core.CampaignLister, logger *zap.Logger, ttl time.Duration) *CampaignCache {
	if ttl <= 0 {
		ttl = DefaultCampaignTTL
	}
	return &CampaignCache{
		fetcher: fetcher,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the campaign list, from cache when a fresh entry exists and
// forceRefresh is false. The returned slice is a copy; callers may mutate it.
func (c *CampaignCache) Get(ctx context.Context, forceRefresh bool) ([]core.Campaign, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !forceRefresh && c.entry != nil && c.now().Before(c.entry.expiresAt) {
		c.logger.Debug("Campaign cache hit", zap.Int("campaigns", len(c.entry.campaigns)))
		return copyCampaigns(c.entry.campaigns), nil
	}

	campaigns, err := c.fetcher.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	c.entry = &entry{
		campaigns: campaigns,
		expiresAt: c.now().Add(c.ttl),
	}
	c.logger.Debug("Campaign cache refreshed",
		zap.Int("campaigns", len(campaigns)),
		zap.Bool("forced", forceRefresh))
	return copyCampaigns(campaigns), nil
}

// Clear discards the cached entry unconditionally. Used after operations that
// invalidate it, such as an export changing prospect counts.
func (c *CampaignCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

func copyCampaigns(in []core.Campaign) []core.Campaign {
	out := make([]core.Campaign, len(in))
	copy(out, in)
	return out
}
