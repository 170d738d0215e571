package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/lead-outreach/internal/core"
	"github.com/mikey/lead-outreach/internal/utils"
	"go.uber.org/zap"
)

// CopyClient generates outreach snippets using Amazon Bedrock
type CopyClient struct {
	client        *bedrockruntime.Client
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	snippetCount  int
	maxSnippetLen int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// NewCopyClient creates a new Bedrock copy client
func NewCopyClient(
	client *bedrockruntime.Client,
	modelID string,
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
		client:        client,
		modelID:       modelID,
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

func (c *CopyClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.")
}

// GenerateSnippets produces personalization snippets for the lead
func (c *CopyClient) GenerateSnippets(ctx context.Context, lead *core.Lead) (map[string]string, error) {
	location := make([]string, 0, 3)
	for _, part := range []string{lead.City, lead.State, lead.Country} {
		if part != "" {
			location = append(location, part)
		}
	}
	prompt := fmt.Sprintf(c.promptFormat,
		c.snippetCount, c.snippetCount,
		strings.TrimSpace(lead.FirstName+" "+lead.LastName),
		lead.Title, lead.Company, strings.Join(location, ", "), lead.LinkedinURL)

	var payload []byte
	var err error
	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"anthropic_version": "bedrock-2023-05-31",
			"max_tokens":        c.maxTokens,
			"temperature":       c.temperature,
			"top_p":             c.topP,
			"messages": []map[string]interface{}{
				{"role": "user", "content": prompt},
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := c.extractText(resp.Body)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		extracted := utils.ExtractJSONObject(responseText)
		if extracted == "" {
			return nil, fmt.Errorf("failed to parse Bedrock response as JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(extracted), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse Bedrock response as JSON: %w", err)
		}
	}

	snippets := make(map[string]string, len(raw))
	for k, v := range raw {
		snippets[k] = c.textProcessor.CleanSnippet(v, c.maxSnippetLen)
	}
	return snippets, nil
}

// extractText pulls the generated text out of the model-specific envelope
func (c *CopyClient) extractText(body []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		if len(claudeResp.Content) == 0 {
			return "", fmt.Errorf("empty response from Claude model")
		}
		return claudeResp.Content[0].Text, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal model response: %w", err)
	}
	for _, candidate := range []string{genericResp.Output, genericResp.Text, genericResp.Response} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return string(body), nil
}
