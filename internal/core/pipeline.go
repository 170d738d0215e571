package core

import (
	"context"

	"go.uber.org/zap"
)

// PipelineResult summarizes one pipeline run
type PipelineResult struct {
	LeadsLoaded    int
	LeadsGenerated int
	LeadsSkipped   int
	Progress       *ExportProgress
}

// Pipeline drives the full outreach flow for the daemon: load pending leads,
// fill in missing personalization, run the advisory duplicate check, export,
// and record outcomes back into the store.
type Pipeline struct {
	leads    LeadRepository
	content  *ContentService
	outreach *OutreachService
	logger   *zap.Logger
}

// NewPipeline creates a pipeline. content may be nil when copy generation is
// disabled; leads without snippets are then exported as-is.
func NewPipeline(leads LeadRepository, content *ContentService, outreach *OutreachService, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		leads:    leads,
		content:  content,
		outreach: outreach,
		logger:   logger,
	}
}

// Run processes up to limit pending leads into the campaign and returns a
// summary. Leads with invalid emails are marked failed and skipped; content
// generation failures are logged and the lead is exported without snippets.
func (p *Pipeline) Run(ctx context.Context, campaignID, limit int, onProgress ProgressFunc) (*PipelineResult, error) {
	leads, err := p.leads.ListByStatus(ctx, LeadStatusPending, limit)
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{LeadsLoaded: len(leads)}
	if len(leads) == 0 {
		result.Progress = &ExportProgress{Status: ExportStatusCompleted, Errors: []ExportError{}}
		return result, nil
	}

	prospects := make([]Prospect, 0, len(leads))
	submitted := make([]*Lead, 0, len(leads))
	var invalid []int64
	for _, lead := range leads {
		if p.content != nil && len(lead.Snippets) == 0 {
			snippets, err := p.content.GenerateFor(ctx, lead)
			if err != nil {
				p.logger.Warn("Snippet generation failed, exporting lead without copy",
					zap.String("email", lead.Email),
					zap.Error(err))
			} else {
				lead.Snippets = snippets
				if err := p.leads.UpdateSnippets(ctx, lead.ID, snippets); err != nil {
					p.logger.Error("Failed to persist snippets", zap.Int64("lead_id", lead.ID), zap.Error(err))
				}
				result.LeadsGenerated++
			}
		}

		prospect := lead.ToProspect()
		if err := prospect.Validate(); err != nil {
			p.logger.Warn("Skipping lead with invalid email",
				zap.Int64("lead_id", lead.ID),
				zap.Error(err))
			invalid = append(invalid, lead.ID)
			result.LeadsSkipped++
			continue
		}
		prospects = append(prospects, prospect)
		submitted = append(submitted, lead)
	}

	if len(invalid) > 0 {
		if err := p.leads.UpdateStatus(ctx, invalid, LeadStatusFailed); err != nil {
			p.logger.Error("Failed to mark invalid leads", zap.Error(err))
		}
	}
	if len(prospects) == 0 {
		result.Progress = &ExportProgress{Status: ExportStatusCompleted, Errors: []ExportError{}}
		return result, nil
	}

	emails := make([]string, 0, len(prospects))
	for _, pr := range prospects {
		emails = append(emails, pr.Email())
	}
	if dupes := p.outreach.CheckDuplicateProspects(ctx, emails, campaignID); len(dupes) > 0 {
		p.logger.Info("Prospects already present in campaign, platform will dedupe",
			zap.Int("campaign_id", campaignID),
			zap.Int("duplicates", len(dupes)))
	}

	progress, exportErr := p.outreach.AddProspectsToCampaign(ctx, prospects, campaignID, onProgress)
	result.Progress = progress
	if progress != nil {
		p.recordOutcomes(ctx, progress, submitted)
	}
	return result, exportErr
}

// recordOutcomes moves leads to exported/failed based on the terminal
// progress. The export processes prospects strictly in submission order, so
// only the first progress.Current leads were ever presented to the platform;
// leads past that point (a cancelled run) keep their pending status and are
// retried next cycle.
func (p *Pipeline) recordOutcomes(ctx context.Context, progress *ExportProgress, submitted []*Lead) {
	failed := make(map[string]struct{}, len(progress.Errors))
	for _, e := range progress.Errors {
		failed[normalizeEmail(e.Email)] = struct{}{}
	}

	processed := progress.Current
	if processed > len(submitted) {
		processed = len(submitted)
	}

	var exported, errored []int64
	for _, lead := range submitted[:processed] {
		if _, ok := failed[normalizeEmail(lead.Email)]; ok {
			errored = append(errored, lead.ID)
		} else {
			exported = append(exported, lead.ID)
		}
	}

	if len(exported) > 0 {
		if err := p.leads.UpdateStatus(ctx, exported, LeadStatusExported); err != nil {
			p.logger.Error("Failed to mark exported leads", zap.Error(err))
		}
	}
	if len(errored) > 0 {
		if err := p.leads.UpdateStatus(ctx, errored, LeadStatusFailed); err != nil {
			p.logger.Error("Failed to mark failed leads", zap.Error(err))
		}
	}
}
