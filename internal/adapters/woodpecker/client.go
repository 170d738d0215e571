package woodpecker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/lead-outreach/internal/core"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the platform's REST root
	DefaultBaseURL = "https://api.woodpecker.co/rest/v1"

	// DefaultTimeout bounds every request; a timeout surfaces as a retryable
	// network error
	DefaultTimeout = 30 * time.Second

	apiKeyHeader = "X-API-KEY"
)

// Client is the live implementation of core.CampaignGateway. It is the only
// component in the repository that touches the network: every call passes
// through the rate limiter first and every failure through the classifier,
// which keeps retry semantics centralized in the callers.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *RateLimiter
	logger     *zap.Logger
}

// NewClient creates a live platform client. Empty baseURL and zero timeout
// select the defaults.
func NewClient(baseURL, apiKey string, timeout time.Duration, limiter *RateLimiter, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     logger,
	}
}

// campaignEntry is the wire shape of GET /campaign_list items
type campaignEntry struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	Created        string `json:"created"`
	ProspectsCount int    `json:"prospects_count"`
}

// ListCampaigns fetches the campaign list
func (c *Client) ListCampaigns(ctx context.Context) ([]core.Campaign, error) {
	body, err := c.send(ctx, http.MethodGet, "/campaign_list", nil, nil)
	if err != nil {
		return nil, err
	}

	var entries []campaignEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &core.APIError{
			Message:   fmt.Sprintf("unexpected campaign list payload: %v", err),
			Category:  core.ErrorCategoryUnknown,
			Retryable: true,
		}
	}

	campaigns := make([]core.Campaign, 0, len(entries))
	for _, e := range entries {
		campaigns = append(campaigns, core.Campaign{
			ID:            e.ID,
			Name:          e.Name,
			Status:        e.Status,
			CreatedAt:     parseCreated(e.Created),
			ProspectCount: e.ProspectsCount,
		})
	}
	return campaigns, nil
}

// addProspectsRequest is the wire shape of POST /add_prospects_campaign
type addProspectsRequest struct {
	Prospects []core.Prospect `json:"prospects"`
	Campaign  struct {
		CampaignID int `json:"campaign_id"`
	} `json:"campaign"`
	Force bool `json:"force"`
}

type addProspectsResponse struct {
	Status struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
	} `json:"status"`
	Prospects []prospectResultEntry `json:"prospects"`
}

// prospectResultEntry tolerates both the "status" and the older "result"
// outcome field
type prospectResultEntry struct {
	Email  string `json:"email"`
	Status string `json:"status"`
	Result string `json:"result"`
	ID     int64  `json:"id"`
	Msg    string `json:"msg"`
	Err    string `json:"error"`
}

// AddProspects submits one batch to a campaign
func (c *Client) AddProspects(ctx context.Context, campaignID int, prospects []core.Prospect, force bool) (*core.AddProspectsResult, error) {
	req := addProspectsRequest{Prospects: prospects, Force: force}
	req.Campaign.CampaignID = campaignID

	body, err := c.send(ctx, http.MethodPost, "/add_prospects_campaign", nil, req)
	if err != nil {
		return nil, err
	}

	var resp addProspectsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &core.APIError{
			Message:   fmt.Sprintf("unexpected add_prospects payload: %v", err),
			Category:  core.ErrorCategoryUnknown,
			Retryable: true,
		}
	}

	result := &core.AddProspectsResult{
		StatusCode: resp.Status.Code,
		StatusMsg:  resp.Status.Msg,
	}
	if resp.Prospects != nil {
		result.PerProspect = make([]core.ProspectResult, 0, len(resp.Prospects))
		for _, e := range resp.Prospects {
			status := e.Status
			if status == "" {
				status = e.Result
			}
			result.PerProspect = append(result.PerProspect, core.ProspectResult{
				Email:  e.Email,
				Status: status,
				ID:     e.ID,
				Msg:    e.Msg,
				Err:    e.Err,
			})
		}
	}
	return result, nil
}

type prospectsResponse struct {
	Prospects []struct {
		Email     string `json:"email"`
		Campaigns []int  `json:"campaigns"`
	} `json:"prospects"`
}

// CampaignProspects lists emails already present in a campaign
func (c *Client) CampaignProspects(ctx context.Context, campaignID int) ([]string, error) {
	query := url.Values{"campaign_id": []string{strconv.Itoa(campaignID)}}
	body, err := c.send(ctx, http.MethodGet, "/prospects", query, nil)
	if err != nil {
		return nil, err
	}

	var resp prospectsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &core.APIError{
			Message:   fmt.Sprintf("unexpected prospects payload: %v", err),
			Category:  core.ErrorCategoryUnknown,
			Retryable: true,
		}
	}

	emails := make([]string, 0, len(resp.Prospects))
	for _, p := range resp.Prospects {
		// The query is already campaign-scoped; an empty campaigns array means
		// membership wasn't reported, not absence, so count it as present.
		if len(p.Campaigns) == 0 || containsInt(p.Campaigns, campaignID) {
			emails = append(emails, p.Email)
		}
	}
	return emails, nil
}

type bulkRequest struct {
	Type        string  `json:"type"`
	ProspectIDs []int64 `json:"prospect_ids"`
}

// DetectTimezones requests server-side timezone detection for prospect ids
func (c *Client) DetectTimezones(ctx context.Context, prospectIDs []int64) error {
	if len(prospectIDs) == 0 {
		return nil
	}
	path := "/prospects/bulk/" + uuid.NewString()
	_, err := c.send(ctx, http.MethodPost, path, nil, bulkRequest{
		Type:        "DETECT_TIMEZONE",
		ProspectIDs: prospectIDs,
	})
	return err
}

// Quota implements core.QuotaReporter
func (c *Client) Quota() core.QuotaInfo {
	return c.limiter.Quota()
}

// send performs one authenticated call: rate-limit check, HTTP round trip,
// body read, classification of non-2xx statuses. The raw body is returned for
// the caller to decode.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	if err := c.limiter.CheckAndConsume(); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Platform request", zap.String("method", method), zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ClassifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ClassifyTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := ClassifyStatus(resp.StatusCode, body)
		c.logger.Warn("Platform request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("category", string(apiErr.Category)))
		return nil, apiErr
	}

	return body, nil
}

func parseCreated(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func containsInt(values []int, want int) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
