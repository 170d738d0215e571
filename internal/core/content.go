package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// MaxSnippets is the number of free-form snippet fields the platform
	// accepts per prospect
	MaxSnippets = 15

	defaultContentRetries = 3
	defaultContentBackoff = 2 * time.Second
)

// ContentService wraps a CopyGenerator with retry, backoff and request
// pacing. Generators make a single call; everything about when to call again
// lives here.
type ContentService struct {
	generator  CopyGenerator
	logger     *zap.Logger
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
}

// NewContentService creates a content service. requestsPerMinute caps the
// LLM call rate; zero disables pacing.
func NewContentService(generator CopyGenerator, logger *zap.Logger, requestsPerMinute int, maxRetries int) *ContentService {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
	}
	if maxRetries < 0 {
		maxRetries = defaultContentRetries
	}
	return &ContentService{
		generator:  generator,
		logger:     logger,
		limiter:    limiter,
		maxRetries: maxRetries,
		baseDelay:  defaultContentBackoff,
	}
}

// GenerateFor produces personalization snippets for the lead, retrying
// transient failures with exponential backoff. Snippet keys are normalized to
// snippet_1..snippet_15; extra keys are discarded.
func (s *ContentService) GenerateFor(ctx context.Context, lead *Lead) (map[string]string, error) {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := s.baseDelay * time.Duration(1<<(attempt-1))
			s.logger.Debug("Retrying snippet generation",
				zap.String("email", lead.Email),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		snippets, err := s.generator.GenerateSnippets(ctx, lead)
		if err == nil {
			return normalizeSnippets(snippets), nil
		}

		lastErr = err
		if apiErr, ok := err.(*APIError); ok && !apiErr.Retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("snippet generation failed after %d attempts: %w", s.maxRetries+1, lastErr)
}

// normalizeSnippets keeps only well-formed snippet_N keys within the
// platform's limit
func normalizeSnippets(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for n := 1; n <= MaxSnippets; n++ {
		key := fmt.Sprintf("snippet_%d", n)
		if v, ok := in[key]; ok && strings.TrimSpace(v) != "" {
			out[key] = strings.TrimSpace(v)
		}
	}
	return out
}
