package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mikey/lead-outreach/internal/core"
	"github.com/mikey/lead-outreach/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// CopyClient generates outreach snippets using OpenAI chat completions.
// One request per lead; retry policy lives in core.ContentService.
type CopyClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	snippetCount  int
	maxSnippetLen int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// NewCopyClient creates a new OpenAI copy client
func NewCopyClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	snippetCount int,
	maxSnippetLen int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *CopyClient {
	if snippetCount <= 0 || snippetCount > core.MaxSnippets {
		snippetCount = 2
	}
	return &CopyClient{
		client:        openai.NewClient(apiKey),
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		snippetCount:  snippetCount,
		maxSnippetLen: maxSnippetLen,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `You write personalized cold-outreach copy. Write %d short personalization snippets for this contact.
Respond with a JSON object whose keys are snippet_1 .. snippet_%d and whose values are the snippets.
Each snippet is one or two sentences, specific to the contact, with no greeting and no signature.

Contact:
Name: %s
Title: %s
Company: %s
Location: %s
LinkedIn: %s

Respond only with the JSON object and nothing else.`,
	}
}

// GenerateSnippets produces personalization snippets for the lead
func (c *CopyClient) GenerateSnippets(ctx context.Context, lead *core.Lead) (map[string]string, error) {
	prompt := fmt.Sprintf(c.promptFormat,
		c.snippetCount, c.snippetCount,
		strings.TrimSpace(lead.FirstName+" "+lead.LastName),
		lead.Title,
		lead.Company,
		formatLocation(lead),
		lead.LinkedinURL,
	)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write personalized outreach copy. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: "json_object"}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	return parseSnippets(resp.Choices[0].Message.Content, c.maxSnippetLen, c.textProcessor)
}

func formatLocation(lead *core.Lead) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{lead.City, lead.State, lead.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// parseSnippets decodes the model's JSON answer, tolerating prose wrapping
func parseSnippets(responseText string, maxSnippetLen int, tp *utils.TextProcessor) (map[string]string, error) {
	var raw map[string]string
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		extracted := utils.ExtractJSONObject(responseText)
		if extracted == "" {
			return nil, fmt.Errorf("failed to parse snippet response: %w", err)
		}
		if err := json.Unmarshal([]byte(extracted), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse snippet response: %w", err)
		}
	}

	snippets := make(map[string]string, len(raw))
	for k, v := range raw {
		snippets[k] = tp.CleanSnippet(v, maxSnippetLen)
	}
	return snippets, nil
}
