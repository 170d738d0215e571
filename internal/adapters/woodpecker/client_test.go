package woodpecker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/lead-outreach/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "test-key", time.Second, NewRateLimiter(100), zap.NewNop())
	return client, server
}

func TestListCampaigns(t *testing.T) {
	var gotPath, gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-KEY")
		w.Write([]byte(`[
			{"id": 11, "name": "SaaS Founders Q3", "status": "RUNNING", "created": "2025-05-01T10:30:00+0200", "prospects_count": 248},
			{"id": 12, "name": "Agency Owners", "status": "PAUSED"}
		]`))
	})

	campaigns, err := client.ListCampaigns(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/campaign_list", gotPath)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, campaigns, 2)
	assert.Equal(t, 11, campaigns[0].ID)
	assert.Equal(t, "SaaS Founders Q3", campaigns[0].Name)
	assert.Equal(t, "RUNNING", campaigns[0].Status)
	assert.Equal(t, 248, campaigns[0].ProspectCount)
	assert.Equal(t, 2025, campaigns[0].CreatedAt.Year())
	assert.True(t, campaigns[1].CreatedAt.IsZero())
}

func TestListCampaignsAuthFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":{"code":"ERROR","msg":"invalid api key"}}`))
	})

	_, err := client.ListCampaigns(context.Background())
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.ErrorCategoryAuth, apiErr.Category)
	assert.False(t, apiErr.Retryable)
	assert.Equal(t, "invalid api key", apiErr.Message)
}

func TestListCampaignsMalformedPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	})

	_, err := client.ListCampaigns(context.Background())
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.ErrorCategoryUnknown, apiErr.Category)
	assert.True(t, apiErr.Retryable)
}

func TestAddProspectsRequestShape(t *testing.T) {
	var gotBody map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/add_prospects_campaign", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"status":{"code":"OK"}}`))
	})

	prospects := []core.Prospect{{"email": "jane@example.com", "first_name": "Jane"}}
	_, err := client.AddProspects(context.Background(), 42, prospects, true)
	require.NoError(t, err)

	campaign, ok := gotBody["campaign"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), campaign["campaign_id"])
	assert.Equal(t, true, gotBody["force"])

	sent, ok := gotBody["prospects"].([]interface{})
	require.True(t, ok)
	require.Len(t, sent, 1)
	first := sent[0].(map[string]interface{})
	assert.Equal(t, "jane@example.com", first["email"])
	assert.Equal(t, "Jane", first["first_name"])
}

func TestAddProspectsParsesPerProspectResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": {"code": "OK", "msg": "processed"},
			"prospects": [
				{"email": "a@x.example", "status": "OK", "id": 9001},
				{"email": "b@x.example", "result": "DUPLICATE"},
				{"email": "c@x.example", "status": "ERROR", "msg": "invalid domain"}
			]
		}`))
	})

	result, err := client.AddProspects(context.Background(), 42, []core.Prospect{{"email": "a@x.example"}}, false)
	require.NoError(t, err)

	assert.Equal(t, "OK", result.StatusCode)
	assert.Equal(t, "processed", result.StatusMsg)
	require.Len(t, result.PerProspect, 3)

	assert.True(t, result.PerProspect[0].Succeeded())
	assert.Equal(t, int64(9001), result.PerProspect[0].ID)

	// older "result" field is honored
	assert.Equal(t, "DUPLICATE", result.PerProspect[1].Status)
	assert.True(t, result.PerProspect[1].Succeeded())

	assert.False(t, result.PerProspect[2].Succeeded())
	assert.Equal(t, "invalid domain", result.PerProspect[2].FailureMessage())
}

func TestAddProspectsWithoutProspectArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":{"code":"OK"}}`))
	})

	result, err := client.AddProspects(context.Background(), 42, []core.Prospect{{"email": "a@x.example"}}, false)
	require.NoError(t, err)
	assert.Nil(t, result.PerProspect)
}

func TestCampaignProspectsFiltersByCampaign(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"prospects": [
			{"email": "in@x.example", "campaigns": [42, 7]},
			{"email": "other@x.example", "campaigns": [7]},
			{"email": "unassigned@x.example"}
		]}`))
	})

	emails, err := client.CampaignProspects(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "campaign_id=42", gotQuery)
	// membership unknown counts as possibly-present
	assert.Equal(t, []string{"in@x.example", "unassigned@x.example"}, emails)
}

func TestDetectTimezones(t *testing.T) {
	var gotPath string
	var gotBody bulkRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"status":{"code":"OK"}}`))
	})

	require.NoError(t, client.DetectTimezones(context.Background(), []int64{1, 2, 3}))
	assert.True(t, strings.HasPrefix(gotPath, "/prospects/bulk/"))
	assert.Greater(t, len(strings.TrimPrefix(gotPath, "/prospects/bulk/")), 0)
	assert.Equal(t, "DETECT_TIMEZONE", gotBody.Type)
	assert.Equal(t, []int64{1, 2, 3}, gotBody.ProspectIDs)
}

func TestDetectTimezonesEmptyInput(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	require.NoError(t, client.DetectTimezones(context.Background(), nil))
	assert.False(t, called)
}

func TestClientStopsAtRateLimit(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key", time.Second, NewRateLimiter(2), zap.NewNop())

	_, err := client.ListCampaigns(context.Background())
	require.NoError(t, err)
	_, err = client.ListCampaigns(context.Background())
	require.NoError(t, err)

	// the third call is refused locally, before any network traffic
	_, err = client.ListCampaigns(context.Background())
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.ErrorCategoryRateLimit, apiErr.Category)
	assert.Equal(t, 2, requests)
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "test-key", time.Second, NewRateLimiter(100), zap.NewNop())
	_, err := client.ListCampaigns(context.Background())

	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.ErrorCategoryNetwork, apiErr.Category)
	assert.True(t, apiErr.Retryable)
}
