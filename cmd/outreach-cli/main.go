package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mikey/lead-outreach/internal/adapters/cache"
	"github.com/mikey/lead-outreach/internal/config"
	"github.com/mikey/lead-outreach/internal/core"
	"github.com/mikey/lead-outreach/internal/factory"
	"github.com/mikey/lead-outreach/internal/logging"
	"go.uber.org/zap"
)

var (
	// Platform flags
	apiKey  = flag.String("api-key", "", "Platform API key (empty runs in demo mode)")
	baseURL = flag.String("base-url", "", "Platform API base URL")

	// Actions
	listCampaigns = flag.Bool("campaigns", false, "List campaigns")
	refresh       = flag.Bool("refresh", false, "Bypass the campaign cache when listing")
	quota         = flag.Bool("quota", false, "Show rate-budget usage")
	exportFile    = flag.String("export", "", "Export prospects from a JSON-lines file")
	checkDupes    = flag.Bool("check-duplicates", false, "Only report duplicates for the prospects in -export")
	campaignID    = flag.Int("campaign", 0, "Target campaign id")
	force         = flag.Bool("force", false, "Skip the duplicate pre-check warning before export")

	// Output flags
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := createConfigFromFlags()
	svc, err := buildService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}

	ctx := context.Background()

	switch {
	case *listCampaigns:
		runListCampaigns(ctx, svc, logger)
	case *quota:
		runQuota(svc)
	case *exportFile != "":
		runExport(ctx, svc, logger)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// createConfigFromFlags builds a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()
	if *apiKey != "" {
		v.Set("woodpecker.api_key", *apiKey)
	}
	if *baseURL != "" {
		v.Set("woodpecker.base_url", *baseURL)
	}
	return config.NewFromViper(v)
}

// buildService wires the outreach service by hand; the CLI doesn't need the
// full container
func buildService(cfg *config.Config, logger *zap.Logger) (*core.OutreachService, error) {
	gw, err := factory.NewGatewayFactory(cfg, logger).CreateGateway()
	if err != nil {
		return nil, err
	}

	ttl, err := cfg.GetDuration("woodpecker.cache_ttl")
	if err != nil {
		return nil, err
	}
	batchDelay, err := cfg.GetDuration("export.batch_delay")
	if err != nil {
		return nil, err
	}
	demoDelay, err := cfg.GetDuration("export.demo_delay")
	if err != nil {
		return nil, err
	}

	exporter := core.NewExportService(gw.Client, logger, gw.Mode, cfg.GetInt("export.batch_size"), batchDelay, demoDelay)
	detector := core.NewDuplicateDetector(gw.Client, logger)
	catalog := cache.NewCampaignCache(gw.Client, logger, ttl)
	return core.NewOutreachService(exporter, detector, catalog, gw.Quota, logger), nil
}

func runListCampaigns(ctx context.Context, svc *core.OutreachService, logger *zap.Logger) {
	campaigns, err := svc.GetCampaigns(ctx, *refresh)
	if err != nil {
		logger.Fatal("Failed to list campaigns", zap.Error(err))
	}
	for _, c := range campaigns {
		fmt.Printf("%8d  %-10s  %-40s  %d prospects\n", c.ID, c.Status, c.Name, c.ProspectCount)
	}
}

func runQuota(svc *core.OutreachService) {
	q := svc.GetQuotaInfo()
	fmt.Printf("Used %d of %d requests this minute (%d remaining)\n",
		q.RequestCount, q.MaxPerMinute, q.RemainingRequests)
}

func runExport(ctx context.Context, svc *core.OutreachService, logger *zap.Logger) {
	if *campaignID <= 0 {
		logger.Fatal("-campaign is required with -export")
	}

	prospects, err := readProspects(*exportFile)
	if err != nil {
		logger.Fatal("Failed to read prospects", zap.Error(err))
	}
	logger.Info("Loaded prospects", zap.Int("count", len(prospects)))

	emails := make([]string, 0, len(prospects))
	for _, p := range prospects {
		emails = append(emails, p.Email())
	}
	duplicates := svc.CheckDuplicateProspects(ctx, emails, *campaignID)
	if *checkDupes {
		for _, email := range duplicates {
			fmt.Println(email)
		}
		fmt.Printf("%d of %d already in campaign %d\n", len(duplicates), len(prospects), *campaignID)
		return
	}
	if len(duplicates) > 0 && !*force {
		logger.Warn("Some prospects are already in the campaign, the platform will report them as duplicates",
			zap.Int("duplicates", len(duplicates)))
	}

	progress, err := svc.AddProspectsToCampaign(ctx, prospects, *campaignID, func(p core.ExportProgress) {
		fmt.Printf("\r%d/%d exported (%d failed)", p.Current, p.Total, p.Failed)
	})
	fmt.Println()
	if err != nil {
		logger.Fatal("Export failed", zap.Error(err))
	}

	fmt.Printf("Done: %d succeeded, %d failed of %d\n", progress.Succeeded, progress.Failed, progress.Total)
	for _, e := range progress.Errors {
		fmt.Printf("  %s: %s\n", e.Email, e.Error)
	}
	if progress.Failed > 0 {
		os.Exit(1)
	}
}

// readProspects parses a JSON-lines file, one flat string-to-string object
// per line. Blank lines are skipped; invalid prospects abort the run.
func readProspects(path string) ([]core.Prospect, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var prospects []core.Prospect
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var p core.Prospect
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		prospects = append(prospects, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return prospects, nil
}
