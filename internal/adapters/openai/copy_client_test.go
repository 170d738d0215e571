package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/lead-outreach/internal/core"
	"github.com/mikey/lead-outreach/internal/utils"
)

func TestParseSnippetsPlainJSON(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())
	snippets, err := parseSnippets(`{"snippet_1": " Loved your post. ", "snippet_2": "Congrats on the raise."}`, 1000, tp)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"snippet_1": "Loved your post.",
		"snippet_2": "Congrats on the raise.",
	}, snippets)
}

func TestParseSnippetsProseWrapped(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())
	response := "Sure! Here are your snippets:\n```json\n{\"snippet_1\": \"Hi there\"}\n```"
	snippets, err := parseSnippets(response, 1000, tp)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", snippets["snippet_1"])
}

func TestParseSnippetsTruncatesLongValues(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())
	snippets, err := parseSnippets(`{"snippet_1": "abcdefghij"}`, 4, tp)
	require.NoError(t, err)
	assert.Equal(t, "abcd", snippets["snippet_1"])
}

func TestParseSnippetsRejectsGarbage(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())
	_, err := parseSnippets("no json here at all", 1000, tp)
	assert.Error(t, err)
}

func TestNewCopyClientClampsSnippetCount(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())
	client := NewCopyClient("key", "gpt-4o-mini", 500, 0.7, 0.9, core.MaxSnippets+10, 1000, zap.NewNop(), tp)
	assert.Equal(t, 2, client.snippetCount)

	client = NewCopyClient("key", "gpt-4o-mini", 500, 0.7, 0.9, 3, 1000, zap.NewNop(), tp)
	assert.Equal(t, 3, client.snippetCount)
}

func TestFormatLocation(t *testing.T) {
	assert.Equal(t, "Berlin, Germany", formatLocation(&core.Lead{City: "Berlin", Country: "Germany"}))
	assert.Equal(t, "Austin, TX, USA", formatLocation(&core.Lead{City: "Austin", State: "TX", Country: "USA"}))
	assert.Empty(t, formatLocation(&core.Lead{}))
}
