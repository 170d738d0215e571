package woodpecker

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mikey/lead-outreach/internal/core"
)

// statusEnvelope is the error shape the platform wraps failed responses in
type statusEnvelope struct {
	Status struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
	} `json:"status"`
}

// ClassifyStatus maps an HTTP status and response body to the closed error
// taxonomy. This is the single source of truth for retry eligibility; no
// other component re-derives it from status codes.
func ClassifyStatus(statusCode int, body []byte) *core.APIError {
	message := extractMessage(body)
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", statusCode)
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &core.APIError{Message: message, Category: core.ErrorCategoryAuth, Retryable: false}
	case statusCode == http.StatusTooManyRequests:
		return &core.APIError{Message: message, Category: core.ErrorCategoryRateLimit, Retryable: true}
	case statusCode >= 400 && statusCode < 500:
		return &core.APIError{Message: message, Category: core.ErrorCategoryValidation, Retryable: false}
	case statusCode >= 500:
		return &core.APIError{Message: message, Category: core.ErrorCategoryNetwork, Retryable: true}
	default:
		return &core.APIError{Message: message, Category: core.ErrorCategoryUnknown, Retryable: true}
	}
}

// ClassifyTransport wraps a transport-level failure (dial, TLS, timeout) as a
// retryable network error.
func ClassifyTransport(err error) *core.APIError {
	return &core.APIError{
		Message:   fmt.Sprintf("request failed: %v", err),
		Category:  core.ErrorCategoryNetwork,
		Retryable: true,
	}
}

// extractMessage pulls the platform's status message out of an error body,
// falling back to empty when the body isn't the expected envelope.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope statusEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Status.Msg
}
