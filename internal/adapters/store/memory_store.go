package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mikey/lead-outreach/internal/core"
	"go.uber.org/zap"
)

// ErrLeadNotFound is returned when a lead does not exist
var ErrLeadNotFound = errors.New("lead not found")

// MemoryStore is an in-memory implementation of core.LeadRepository, used in
// demo mode and in tests
type MemoryStore struct {
	mu     sync.RWMutex
	leads  map[int64]*core.Lead
	nextID int64
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory lead store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		leads:  make(map[int64]*core.Lead),
		nextID: 1,
		logger: logger,
	}
}

// Create stores a new lead and assigns its ID
func (s *MemoryStore) Create(_ context.Context, lead *core.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead.ID = s.nextID
	s.nextID++
	if lead.Status == "" {
		lead.Status = core.LeadStatusPending
	}
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	s.leads[lead.ID] = cloneLead(lead)
	return nil
}

// GetByID fetches one lead
func (s *MemoryStore) GetByID(_ context.Context, id int64) (*core.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	return cloneLead(lead), nil
}

// ListByStatus returns up to limit leads in the given status, oldest first
func (s *MemoryStore) ListByStatus(_ context.Context, status string, limit int) ([]*core.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.Lead
	for _, lead := range s.leads {
		if lead.Status == status {
			out = append(out, cloneLead(lead))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateSnippets replaces a lead's generated snippets
func (s *MemoryStore) UpdateSnippets(_ context.Context, id int64, snippets map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return ErrLeadNotFound
	}
	lead.Snippets = make(map[string]string, len(snippets))
	for k, v := range snippets {
		lead.Snippets[k] = v
	}
	lead.UpdatedAt = time.Now()
	return nil
}

// UpdateStatus moves leads to a new status
func (s *MemoryStore) UpdateStatus(_ context.Context, ids []int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if lead, ok := s.leads[id]; ok {
			lead.Status = status
			lead.UpdatedAt = time.Now()
		}
	}
	return nil
}

func cloneLead(in *core.Lead) *core.Lead {
	out := *in
	if in.Snippets != nil {
		out.Snippets = make(map[string]string, len(in.Snippets))
		for k, v := range in.Snippets {
			out.Snippets[k] = v
		}
	}
	return &out
}
