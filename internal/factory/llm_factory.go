package factory

import (
	"fmt"

	"github.com/mikey/lead-outreach/internal/adapters/bedrock"
	"github.com/mikey/lead-outreach/internal/adapters/gemini"
	"github.com/mikey/lead-outreach/internal/adapters/openai"
	"github.com/mikey/lead-outreach/internal/config"
	"github.com/mikey/lead-outreach/internal/core"
	"github.com/mikey/lead-outreach/internal/utils"
	"go.uber.org/zap"
)

// LLMFactory creates copy-generation clients
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateCopyGenerator creates a copy generator based on the configuration.
// Returns nil (no error) when copy generation is disabled; leads are then
// exported without generated snippets.
func (f *LLMFactory) CreateCopyGenerator() (core.CopyGenerator, error) {
	llmCfg := f.cfg.GetLLM()
	if !llmCfg.Enabled || llmCfg.Provider == "none" {
		f.logger.Info("Copy generation disabled")
		return nil, nil
	}

	switch llmCfg.Provider {
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		if openaiCfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key is required")
		}
		return openai.NewCopyClient(
			openaiCfg.APIKey,
			openaiCfg.ModelName,
			openaiCfg.MaxTokens,
			openaiCfg.Temperature,
			openaiCfg.TopP,
			llmCfg.SnippetCount,
			llmCfg.MaxSnippetLen,
			f.logger,
			f.textProcessor,
		), nil
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClient()
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		if geminiCfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		return gemini.NewCopyClient(
			geminiCfg.APIKey,
			geminiCfg.ModelName,
			geminiCfg.MaxTokens,
			geminiCfg.Temperature,
			geminiCfg.TopP,
			llmCfg.SnippetCount,
			llmCfg.MaxSnippetLen,
			f.logger,
			f.textProcessor,
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmCfg.Provider)
	}
}
