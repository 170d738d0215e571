package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/lead-outreach/internal/adapters/cache"
	"github.com/mikey/lead-outreach/internal/config"
	"github.com/mikey/lead-outreach/internal/core"
	"github.com/mikey/lead-outreach/internal/factory"
	"github.com/mikey/lead-outreach/internal/logging"
	"github.com/mikey/lead-outreach/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewGatewayFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}

	// Register platform gateway
	if err := container.Provide(func(f *factory.GatewayFactory) (*factory.Gateway, error) {
		return f.CreateGateway()
	}); err != nil {
		return nil, err
	}

	// Register campaign cache
	if err := container.Provide(func(cfg *config.Config, gw *factory.Gateway, logger *zap.Logger) (core.CampaignCatalog, error) {
		ttl, err := cfg.GetDuration("woodpecker.cache_ttl")
		if err != nil {
			return nil, err
		}
		return cache.NewCampaignCache(gw.Client, logger, ttl), nil
	}); err != nil {
		return nil, err
	}

	// Register export service
	if err := container.Provide(func(cfg *config.Config, gw *factory.Gateway, logger *zap.Logger) (*core.ExportService, error) {
		batchDelay, err := cfg.GetDuration("export.batch_delay")
		if err != nil {
			return nil, err
		}
		demoDelay, err := cfg.GetDuration("export.demo_delay")
		if err != nil {
			return nil, err
		}
		return core.NewExportService(gw.Client, logger, gw.Mode, cfg.GetInt("export.batch_size"), batchDelay, demoDelay), nil
	}); err != nil {
		return nil, err
	}

	// Register duplicate detector
	if err := container.Provide(func(gw *factory.Gateway, logger *zap.Logger) *core.DuplicateDetector {
		return core.NewDuplicateDetector(gw.Client, logger)
	}); err != nil {
		return nil, err
	}

	// Register outreach service
	if err := container.Provide(func(
		exporter *core.ExportService,
		duplicates *core.DuplicateDetector,
		catalog core.CampaignCatalog,
		gw *factory.Gateway,
		logger *zap.Logger,
	) *core.OutreachService {
		return core.NewOutreachService(exporter, duplicates, catalog, gw.Quota, logger)
	}); err != nil {
		return nil, err
	}

	// Register copy generator and content service
	if err := container.Provide(func(f *factory.LLMFactory) (core.CopyGenerator, error) {
		return f.CreateCopyGenerator()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, generator core.CopyGenerator, logger *zap.Logger) *core.ContentService {
		if generator == nil {
			return nil
		}
		llmCfg := cfg.GetLLM()
		return core.NewContentService(generator, logger, llmCfg.RequestsPerMinute, llmCfg.MaxRetries)
	}); err != nil {
		return nil, err
	}

	// Register lead repository
	if err := container.Provide(func(f *factory.StoreFactory) (core.LeadRepository, error) {
		return f.CreateLeadRepository()
	}); err != nil {
		return nil, err
	}

	// Register pipeline
	if err := container.Provide(core.NewPipeline); err != nil {
		return nil, err
	}

	return container, nil
}
