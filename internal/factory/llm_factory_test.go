package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/lead-outreach/internal/config"
	"github.com/mikey/lead-outreach/internal/utils"
)

func TestCreateCopyGeneratorDisabled(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("llm.enabled", false)
	factory := NewLLMFactory(config.NewFromViper(v), zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))

	generator, err := factory.CreateCopyGenerator()
	require.NoError(t, err)
	assert.Nil(t, generator)
}

func TestCreateCopyGeneratorProviderNone(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("llm.provider", "none")
	factory := NewLLMFactory(config.NewFromViper(v), zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))

	generator, err := factory.CreateCopyGenerator()
	require.NoError(t, err)
	assert.Nil(t, generator)
}

func TestCreateCopyGeneratorOpenAIRequiresKey(t *testing.T) {
	factory := NewLLMFactory(config.NewFromViper(config.NewEmptyViper()), zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))
	_, err := factory.CreateCopyGenerator()
	assert.Error(t, err)
}

func TestCreateCopyGeneratorOpenAI(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("openai.api_key", "sk-test")
	factory := NewLLMFactory(config.NewFromViper(v), zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))

	generator, err := factory.CreateCopyGenerator()
	require.NoError(t, err)
	assert.NotNil(t, generator)
}

func TestCreateCopyGeneratorUnknownProvider(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("llm.provider", "mystery")
	factory := NewLLMFactory(config.NewFromViper(v), zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))

	_, err := factory.CreateCopyGenerator()
	assert.Error(t, err)
}
