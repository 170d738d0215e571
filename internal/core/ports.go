package core

import (
	"context"
)

// AddProspectsResult is the platform's answer to one batch submission.
// PerProspect is nil when the platform omits the per-prospect array (older
// response shape).
type AddProspectsResult struct {
	StatusCode  string
	StatusMsg   string
	PerProspect []ProspectResult
}

// ProspectResult is the platform's per-prospect outcome within a batch
type ProspectResult struct {
	Email  string
	Status string
	ID     int64
	Msg    string
	Err    string
}

// Succeeded reports whether this entry counts as a successful submission.
// DUPLICATE is a non-error outcome on the platform, and entries carrying no
// error indicator at all are treated as success rather than silently dropped.
func (r ProspectResult) Succeeded() bool {
	switch r.Status {
	case "OK", "DUPLICATE", "SUCCESS":
		return true
	}
	return r.Status == "" && r.Err == ""
}

// FailureMessage returns the best available error text for a failed entry
func (r ProspectResult) FailureMessage() string {
	if r.Err != "" {
		return r.Err
	}
	if r.Msg != "" {
		return r.Msg
	}
	if r.Status != "" {
		return "prospect rejected with status " + r.Status
	}
	return "prospect rejected"
}

// CampaignGateway is the export engine's view of the campaign platform. The
// live implementation is the only component that touches HTTP; the demo
// implementation fabricates equivalent answers locally.
type CampaignGateway interface {
	// ListCampaigns fetches the campaign list
	ListCampaigns(ctx context.Context) ([]Campaign, error)

	// AddProspects submits one batch to a campaign
	AddProspects(ctx context.Context, campaignID int, prospects []Prospect, force bool) (*AddProspectsResult, error)

	// CampaignProspects lists emails already present in a campaign, used for
	// duplicate detection
	CampaignProspects(ctx context.Context, campaignID int) ([]string, error)

	// DetectTimezones requests server-side timezone detection for prospect
	// ids; fire-and-forget from the caller's point of view
	DetectTimezones(ctx context.Context, prospectIDs []int64) error
}

// CampaignLister is the fetch side of the campaign cache
type CampaignLister interface {
	ListCampaigns(ctx context.Context) ([]Campaign, error)
}

// QuotaReporter exposes read-only rate-budget introspection
type QuotaReporter interface {
	Quota() QuotaInfo
}

// CopyGenerator produces personalized outreach snippets for one lead.
// Implementations make a single LLM call; retry policy lives in ContentService.
type CopyGenerator interface {
	GenerateSnippets(ctx context.Context, lead *Lead) (map[string]string, error)
}

// LeadRepository is the local persistence port for imported leads
type LeadRepository interface {
	// Create stores a new lead and assigns its ID
	Create(ctx context.Context, lead *Lead) error

	// GetByID fetches one lead
	GetByID(ctx context.Context, id int64) (*Lead, error)

	// ListByStatus returns up to limit leads in the given status, oldest first
	ListByStatus(ctx context.Context, status string, limit int) ([]*Lead, error)

	// UpdateSnippets replaces a lead's generated snippets
	UpdateSnippets(ctx context.Context, id int64, snippets map[string]string) error

	// UpdateStatus moves leads to a new status
	UpdateStatus(ctx context.Context, ids []int64, status string) error
}
