package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikey/lead-outreach/internal/config"
	"github.com/mikey/lead-outreach/internal/core"
	"github.com/mikey/lead-outreach/internal/di"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	pipeline *core.Pipeline,
	exporter *core.ExportService,
	leads core.LeadRepository,
) error {
	defer logger.Sync()

	exportCfg := cfg.GetExport()
	if exportCfg.CampaignID <= 0 {
		logger.Fatal("export.campaign_id must be configured")
	}

	interval, err := cfg.GetDuration("export.interval")
	if err != nil {
		logger.Fatal("Invalid export interval", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown; cancellation takes effect between batches
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Shutting down...")
		cancel()
	}()

	logger.Info("Starting outreach pipeline",
		zap.Int("campaign_id", exportCfg.CampaignID),
		zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runOnce(ctx, logger, pipeline, exportCfg.CampaignID, exportCfg.LeadLimit)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			exporter.Close()
			if closer, ok := leads.(interface{ Close() error }); ok {
				if err := closer.Close(); err != nil {
					logger.Error("Failed to close lead store", zap.Error(err))
				}
			}
			logger.Info("Shutdown complete")
			return nil
		}
	}
}

func runOnce(ctx context.Context, logger *zap.Logger, pipeline *core.Pipeline, campaignID, leadLimit int) {
	result, err := pipeline.Run(ctx, campaignID, leadLimit, func(p core.ExportProgress) {
		logger.Info("Export progress",
			zap.Int("current", p.Current),
			zap.Int("total", p.Total),
			zap.Int("succeeded", p.Succeeded),
			zap.Int("failed", p.Failed))
	})
	if err != nil {
		logger.Error("Pipeline run failed", zap.Error(err))
		return
	}
	if result.LeadsLoaded == 0 {
		logger.Debug("No pending leads")
		return
	}
	logger.Info("Pipeline run finished",
		zap.Int("loaded", result.LeadsLoaded),
		zap.Int("generated", result.LeadsGenerated),
		zap.Int("skipped", result.LeadsSkipped),
		zap.Int("succeeded", result.Progress.Succeeded),
		zap.Int("failed", result.Progress.Failed))
}
