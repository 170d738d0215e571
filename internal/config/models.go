package config

// WoodpeckerConfig represents the configuration for the campaign platform API
type WoodpeckerConfig struct {
	APIKey       string
	BaseURL      string
	MaxPerMinute int
}

// ExportConfig represents the configuration for the export engine
type ExportConfig struct {
	BatchSize  int
	CampaignID int
	LeadLimit  int
}

// LLMConfig represents the configuration for the copy-generation provider
type LLMConfig struct {
	Enabled           bool
	Provider          string
	RequestsPerMinute int
	MaxRetries        int
	SnippetCount      int
	MaxSnippetLen     int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GetWoodpecker returns the platform configuration
func (c *Config) GetWoodpecker() WoodpeckerConfig {
	return WoodpeckerConfig{
		APIKey:       c.GetString("woodpecker.api_key"),
		BaseURL:      c.GetString("woodpecker.base_url"),
		MaxPerMinute: c.GetInt("woodpecker.max_per_minute"),
	}
}

// GetExport returns the export engine configuration
func (c *Config) GetExport() ExportConfig {
	return ExportConfig{
		BatchSize:  c.GetInt("export.batch_size"),
		CampaignID: c.GetInt("export.campaign_id"),
		LeadLimit:  c.GetInt("export.lead_limit"),
	}
}

// GetLLM returns the copy-generation configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Enabled:           c.GetBool("llm.enabled"),
		Provider:          c.GetString("llm.provider"),
		RequestsPerMinute: c.GetInt("llm.requests_per_minute"),
		MaxRetries:        c.GetInt("llm.max_retries"),
		SnippetCount:      c.GetInt("llm.snippet_count"),
		MaxSnippetLen:     c.GetInt("llm.max_snippet_len"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}
