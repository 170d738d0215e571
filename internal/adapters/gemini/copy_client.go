package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/lead-outreach/internal/core"
	"github.com/mikey/lead-outreach/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// CopyClient generates outreach snippets using Google Gemini
type CopyClient struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	snippetCount  int
	maxSnippetLen int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// NewCopyClient creates a new Gemini copy client
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
) (*CopyClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	if snippetCount <= 0 || snippetCount > core.MaxSnippets {
		snippetCount = 2
	}

	return &CopyClient{
		client:        client,
		model:         model,
		modelName:     modelName,
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
	}, nil
}

// Close closes the Gemini client
func (c *CopyClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// GenerateSnippets produces personalization snippets for the lead
func (c *CopyClient) GenerateSnippets(ctx context.Context, lead *core.Lead) (map[string]string, error) {
	location := strings.Join(nonEmpty(lead.City, lead.State, lead.Country), ", ")
	prompt := fmt.Sprintf(c.promptFormat,
		c.snippetCount, c.snippetCount,
		strings.TrimSpace(lead.FirstName+" "+lead.LastName),
		lead.Title, lead.Company, location, lead.LinkedinURL)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	var raw map[string]string
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		extracted := utils.ExtractJSONObject(responseText)
		if extracted == "" {
			return nil, fmt.Errorf("failed to parse Gemini response as JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(extracted), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse Gemini response as JSON: %w", err)
		}
	}

	snippets := make(map[string]string, len(raw))
	for k, v := range raw {
		snippets[k] = c.textProcessor.CleanSnippet(v, c.maxSnippetLen)
	}
	return snippets, nil
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
