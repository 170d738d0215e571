package core

import (
	"regexp"
	"strings"
	"time"
)

// Campaign is a read-only snapshot of a campaign on the remote platform
type Campaign struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	ProspectCount int       `json:"prospect_count,omitempty"`
}

// Campaign status values reported by the platform
const (
	CampaignStatusActive  = "ACTIVE"
	CampaignStatusRunning = "RUNNING"
	CampaignStatusPaused  = "PAUSED"
	CampaignStatusDraft   = "DRAFT"
)

// Prospect is one outreach target as submitted to the platform: a flat
// string-to-string mapping. The required "email" key aside, fields are passed
// through opaquely, including generated snippet_1..snippet_15 copy.
type Prospect map[string]string

// emailPattern is intentionally loose; the platform performs its own
// validation and rejects what it doesn't like.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email returns the prospect's email address
func (p Prospect) Email() string {
	return p["email"]
}

// normalizeEmail folds an email for case-insensitive comparison
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks that the prospect is submittable
func (p Prospect) Validate() error {
	email := strings.TrimSpace(p.Email())
	if email == "" {
		return &APIError{Message: "prospect has no email address", Category: ErrorCategoryValidation}
	}
	if !emailPattern.MatchString(email) {
		return &APIError{Message: "invalid email address: " + email, Category: ErrorCategoryValidation}
	}
	return nil
}

// Clone returns an independent copy of the prospect
func (p Prospect) Clone() Prospect {
	out := make(Prospect, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ExportStatus is the lifecycle state of an export run
type ExportStatus string

const (
	ExportStatusPending    ExportStatus = "pending"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusCompleted  ExportStatus = "completed"
	ExportStatusError      ExportStatus = "error"
)

// ExportError records one prospect's failure during an export run
type ExportError struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// ExportProgress is the running (and final) accounting of an export run.
// Invariant: Current == Succeeded+Failed and Current <= Total at every
// observation point; counters never decrease across a run.
type ExportProgress struct {
	Current   int           `json:"current"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Status    ExportStatus  `json:"status"`
	Errors    []ExportError `json:"errors"`
}

// Snapshot returns a copy safe to hand to observers; the errors slice is
// duplicated so a retained snapshot can't be torn by later batches.
func (p *ExportProgress) Snapshot() ExportProgress {
	out := *p
	out.Errors = make([]ExportError, len(p.Errors))
	copy(out.Errors, p.Errors)
	return out
}

// ProgressFunc receives one full progress snapshot per batch (per prospect in
// demo mode). The snapshot is passed by value and never mutated afterwards.
type ProgressFunc func(progress ExportProgress)

// QuotaInfo is read-only rate-budget introspection for quota UIs
type QuotaInfo struct {
	RequestCount      int `json:"request_count"`
	RemainingRequests int `json:"remaining_requests"`
	MaxPerMinute      int `json:"max_per_minute"`
}

// TransportMode selects the live platform transport or the built-in demo
// simulation. It is decided once at construction, never re-checked mid-run.
type TransportMode int

const (
	TransportLive TransportMode = iota
	TransportDemo
)

func (m TransportMode) String() string {
	if m == TransportDemo {
		return "demo"
	}
	return "live"
}

// Lead is a locally stored outreach target prior to export: imported contact
// data plus LLM-generated personalization snippets.
type Lead struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	Company     string
	Title       string
	LinkedinURL string
	City        string
	State       string
	Country     string
	Timezone    string
	Snippets    map[string]string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Lead status values in the local store
const (
	LeadStatusPending  = "pending"
	LeadStatusExported = "exported"
	LeadStatusFailed   = "failed"
)

// ToProspect flattens the lead into the wire shape the platform accepts.
// Empty fields are omitted; snippet keys are passed through as stored.
func (l *Lead) ToProspect() Prospect {
	p := Prospect{"email": l.Email}
	fields := map[string]string{
		"first_name":   l.FirstName,
		"last_name":    l.LastName,
		"company":      l.Company,
		"title":        l.Title,
		"linkedin_url": l.LinkedinURL,
		"city":         l.City,
		"state":        l.State,
		"country":      l.Country,
		"time_zone":    l.Timezone,
	}
	for k, v := range fields {
		if v != "" {
			p[k] = v
		}
	}
	for k, v := range l.Snippets {
		if v != "" {
			p[k] = v
		}
	}
	return p
}
