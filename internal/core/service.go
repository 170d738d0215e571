package core

import (
	"context"

	"go.uber.org/zap"
)

// CampaignCatalog is the cached view of the remote campaign list
type CampaignCatalog interface {
	Get(ctx context.Context, forceRefresh bool) ([]Campaign, error)
	Clear()
}

// OutreachService is the surface the surrounding application (CLI, IPC
// bridge, web handler) programs against. It composes the exporter, the
// duplicate detector, the campaign cache and the quota reporter.
type OutreachService struct {
	exporter   *ExportService
	duplicates *DuplicateDetector
	catalog    CampaignCatalog
	quota      QuotaReporter
	logger     *zap.Logger
}

// NewOutreachService creates the application-facing service
func NewOutreachService(
	exporter *ExportService,
	duplicates *DuplicateDetector,
	catalog CampaignCatalog,
	quota QuotaReporter,
	logger *zap.Logger,
) *OutreachService {
	return &OutreachService{
		exporter:   exporter,
		duplicates: duplicates,
		catalog:    catalog,
		quota:      quota,
		logger:     logger,
	}
}

// GetCampaigns returns the campaign list, cached unless forceRefresh is set
func (s *OutreachService) GetCampaigns(ctx context.Context, forceRefresh bool) ([]Campaign, error) {
	return s.catalog.Get(ctx, forceRefresh)
}

// AddProspectsToCampaign exports prospects into the campaign and returns the
// terminal progress. The campaign cache is cleared afterwards since prospect
// counts have changed.
func (s *OutreachService) AddProspectsToCampaign(ctx context.Context, prospects []Prospect, campaignID int, onProgress ProgressFunc) (*ExportProgress, error) {
	progress, err := s.exporter.Export(ctx, prospects, campaignID, onProgress)
	if progress != nil && progress.Current > 0 {
		s.catalog.Clear()
	}
	return progress, err
}

// CheckDuplicateProspects returns the subset of emails already present in the
// campaign. Advisory only: lookup failures yield an empty result.
func (s *OutreachService) CheckDuplicateProspects(ctx context.Context, emails []string, campaignID int) []string {
	return s.duplicates.FindDuplicates(ctx, emails, campaignID)
}

// ClearCampaignCache discards the cached campaign list
func (s *OutreachService) ClearCampaignCache() {
	s.catalog.Clear()
}

// GetQuotaInfo reports the current rate-budget state
func (s *OutreachService) GetQuotaInfo() QuotaInfo {
	return s.quota.Quota()
}
