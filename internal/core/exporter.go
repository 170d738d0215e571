package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBatchSize stays well under the platform's request-size and
	// timeout limits while amortizing HTTP overhead
	DefaultBatchSize = 50

	// DefaultBatchDelay is derived from the 100 req/min budget (>=600ms per
	// request, plus buffer) so sequential batches never burst the remote
	// limiter
	DefaultBatchDelay = 650 * time.Millisecond

	// DefaultDemoDelay is the simulated per-prospect latency in demo mode
	DefaultDemoDelay = 200 * time.Millisecond
)

// ExportService submits validated prospects to a campaign in fixed-size
// batches, strictly sequentially, and accounts per-prospect outcomes into an
// ExportProgress. One batch failing never blocks later batches. Concurrent
// Export calls on the same instance are serialized.
type ExportService struct {
	gateway    CampaignGateway
	logger     *zap.Logger
	mode       TransportMode
	batchSize  int
	batchDelay time.Duration
	demoDelay  time.Duration

	mu sync.Mutex

	// joined by Close, never by Export
	sideEffects sync.WaitGroup
}

// NewExportService creates a new export service. Zero batchSize/batchDelay/
// demoDelay select the defaults.
func NewExportService(
	gateway CampaignGateway,
	logger *zap.Logger,
	mode TransportMode,
	batchSize int,
	batchDelay time.Duration,
	demoDelay time.Duration,
) *ExportService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchDelay <= 0 {
		batchDelay = DefaultBatchDelay
	}
	if demoDelay <= 0 {
		demoDelay = DefaultDemoDelay
	}
	return &ExportService{
		gateway:    gateway,
		logger:     logger,
		mode:       mode,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		demoDelay:  demoDelay,
	}
}

// Export submits prospects to the campaign and returns the terminal progress.
// The returned progress has Status completed when the run finished, even if
// every prospect failed; callers inspect Failed and Errors for partial
// failures. Cancellation is honored between batches only, never mid-batch.
func (s *ExportService) Export(ctx context.Context, prospects []Prospect, campaignID int, onProgress ProgressFunc) (*ExportProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if campaignID <= 0 {
		return nil, fmt.Errorf("invalid campaign id: %d", campaignID)
	}

	progress := &ExportProgress{
		Total:  len(prospects),
		Status: ExportStatusCompleted,
		Errors: []ExportError{},
	}
	if len(prospects) == 0 {
		return progress, nil
	}

	if s.mode == TransportDemo {
		return s.demoExport(ctx, prospects, campaignID, onProgress, progress)
	}

	progress.Status = ExportStatusProcessing
	s.logger.Info("Starting export",
		zap.Int("campaign_id", campaignID),
		zap.Int("total", len(prospects)),
		zap.Int("batch_size", s.batchSize))

	for start := 0; start < len(prospects); start += s.batchSize {
		if start > 0 {
			if err := s.pause(ctx); err != nil {
				progress.Status = ExportStatusError
				s.publish(onProgress, progress)
				return progress, err
			}
		}

		end := start + s.batchSize
		if end > len(prospects) {
			end = len(prospects)
		}
		batch := prospects[start:end]

		s.submitBatch(ctx, campaignID, batch, progress)
		s.publish(onProgress, progress)
	}

	progress.Status = ExportStatusCompleted
	s.logger.Info("Export finished",
		zap.Int("campaign_id", campaignID),
		zap.Int("succeeded", progress.Succeeded),
		zap.Int("failed", progress.Failed))
	return progress, nil
}

// submitBatch sends one batch and folds the platform's answer into progress
func (s *ExportService) submitBatch(ctx context.Context, campaignID int, batch []Prospect, progress *ExportProgress) {
	result, err := s.gateway.AddProspects(ctx, campaignID, batch, false)
	if err != nil {
		// Batch-level failure: every member is recorded as failed and the
		// run moves on to the next batch.
		s.logger.Warn("Batch submission failed",
			zap.Int("campaign_id", campaignID),
			zap.Int("batch_len", len(batch)),
			zap.Error(err))
		for _, p := range batch {
			progress.Current++
			progress.Failed++
			progress.Errors = append(progress.Errors, ExportError{Email: p.Email(), Error: err.Error()})
		}
		return
	}

	if result.PerProspect == nil {
		// Older response shape without a per-prospect array: the platform
		// reported overall success, so the whole batch is counted succeeded.
		s.logger.Debug("Response carried no per-prospect results, assuming batch success",
			zap.Int("batch_len", len(batch)))
		progress.Current += len(batch)
		progress.Succeeded += len(batch)
		return
	}

	var remoteIDs []int64
	for i, entry := range result.PerProspect {
		progress.Current++
		if entry.Succeeded() {
			progress.Succeeded++
			if entry.ID != 0 {
				remoteIDs = append(remoteIDs, entry.ID)
			}
			continue
		}
		email := entry.Email
		if email == "" && i < len(batch) {
			email = batch[i].Email()
		}
		progress.Failed++
		progress.Errors = append(progress.Errors, ExportError{Email: email, Error: entry.FailureMessage()})
	}

	if len(remoteIDs) > 0 {
		s.detectTimezones(remoteIDs)
	}
}

// detectTimezones fires the server-side timezone detection for newly created
// prospects. Failures are logged and swallowed; this must never touch the
// export outcome.
func (s *ExportService) detectTimezones(ids []int64) {
	s.sideEffects.Add(1)
	go func() {
		defer s.sideEffects.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.gateway.DetectTimezones(ctx, ids); err != nil {
			s.logger.Warn("Timezone detection failed", zap.Int("prospects", len(ids)), zap.Error(err))
		}
	}()
}

// demoExport simulates a fully successful export with realistic timing so UI
// code sees the same progress cadence it would in live mode, one prospect at
// a time. The gateway is never called.
func (s *ExportService) demoExport(ctx context.Context, prospects []Prospect, campaignID int, onProgress ProgressFunc, progress *ExportProgress) (*ExportProgress, error) {
	progress.Status = ExportStatusProcessing
	s.logger.Info("No API credentials configured, simulating export",
		zap.Int("campaign_id", campaignID),
		zap.Int("total", len(prospects)))

	for range prospects {
		select {
		case <-time.After(s.demoDelay):
		case <-ctx.Done():
			progress.Status = ExportStatusError
			s.publish(onProgress, progress)
			return progress, ctx.Err()
		}
		progress.Current++
		progress.Succeeded++
		s.publish(onProgress, progress)
	}

	progress.Status = ExportStatusCompleted
	return progress, nil
}

func (s *ExportService) pause(ctx context.Context) error {
	select {
	case <-time.After(s.batchDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ExportService) publish(onProgress ProgressFunc, progress *ExportProgress) {
	if onProgress != nil {
		onProgress(progress.Snapshot())
	}
}

// Close waits for in-flight side effects to drain
func (s *ExportService) Close() {
	s.sideEffects.Wait()
}
