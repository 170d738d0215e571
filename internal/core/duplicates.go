package core

import (
	"context"

	"go.uber.org/zap"
)

// DuplicateDetector flags emails already present in a campaign before an
// export is attempted. It is purely advisory: any lookup failure yields an
// empty result rather than an error, so a broken pre-check can never block an
// export that would otherwise succeed.
type DuplicateDetector struct {
	gateway CampaignGateway
	logger  *zap.Logger
}

// NewDuplicateDetector creates a new duplicate detector
func NewDuplicateDetector(gateway CampaignGateway, logger *zap.Logger) *DuplicateDetector {
	return &DuplicateDetector{
		gateway: gateway,
		logger:  logger,
	}
}

// FindDuplicates returns the subset of emails already present in the
// campaign, compared case-insensitively. The returned emails keep the casing
// they had in the input.
func (d *DuplicateDetector) FindDuplicates(ctx context.Context, emails []string, campaignID int) []string {
	if len(emails) == 0 {
		return nil
	}

	existing, err := d.gateway.CampaignProspects(ctx, campaignID)
	if err != nil {
		d.logger.Warn("Duplicate check failed, continuing without it",
			zap.Int("campaign_id", campaignID),
			zap.Error(err))
		return nil
	}

	known := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		known[normalizeEmail(e)] = struct{}{}
	}

	var duplicates []string
	for _, e := range emails {
		if _, ok := known[normalizeEmail(e)]; ok {
			duplicates = append(duplicates, e)
		}
	}
	return duplicates
}
