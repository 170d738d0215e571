package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	wp := cfg.GetWoodpecker()
	assert.Empty(t, wp.APIKey)
	assert.Equal(t, "https://api.woodpecker.co/rest/v1", wp.BaseURL)
	assert.Equal(t, 100, wp.MaxPerMinute)

	exp := cfg.GetExport()
	assert.Equal(t, 50, exp.BatchSize)
	assert.Zero(t, exp.CampaignID)
	assert.Equal(t, 500, exp.LeadLimit)

	llm := cfg.GetLLM()
	assert.True(t, llm.Enabled)
	assert.Equal(t, "openai", llm.Provider)
	assert.Equal(t, 20, llm.RequestsPerMinute)

	assert.Equal(t, "sqlite", cfg.GetString("store.type"))
	assert.Equal(t, "info", cfg.GetString("logging.level"))
}

func TestDurationParsing(t *testing.T) {
	v := NewEmptyViper()
	cfg := NewFromViper(v)

	d, err := cfg.GetDuration("export.batch_delay")
	require.NoError(t, err)
	assert.Equal(t, 650*time.Millisecond, d)

	d, err = cfg.GetDuration("woodpecker.cache_ttl")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	v.Set("export.batch_delay", "not a duration")
	_, err = cfg.GetDuration("export.batch_delay")
	assert.Error(t, err)
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("woodpecker.api_key", "wp-key-123")
	v.Set("export.batch_size", 25)
	cfg := NewFromViper(v)

	assert.Equal(t, "wp-key-123", cfg.GetWoodpecker().APIKey)
	assert.Equal(t, 25, cfg.GetExport().BatchSize)
}

func TestProviderConfigs(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	openai := cfg.GetOpenAI()
	assert.Equal(t, "gpt-4o-mini", openai.ModelName)
	assert.InDelta(t, 0.7, openai.Temperature, 0.001)

	bedrock := cfg.GetBedrock()
	assert.Equal(t, "us-east-1", bedrock.Region)
	assert.NotEmpty(t, bedrock.ModelID)

	gemini := cfg.GetGemini()
	assert.Equal(t, "gemini-pro", gemini.ModelName)
}
