package core

// ErrorCategory is the closed taxonomy for platform call failures. It is
// assigned in exactly one place (the gateway's classifier); no other component
// derives retryability from raw status codes.
type ErrorCategory string

const (
	ErrorCategoryRateLimit  ErrorCategory = "rate_limit"
	ErrorCategoryNetwork    ErrorCategory = "network"
	ErrorCategoryAuth       ErrorCategory = "auth"
	ErrorCategoryValidation ErrorCategory = "validation"
	ErrorCategoryUnknown    ErrorCategory = "unknown"
)

// APIError is the only error shape the export engine surfaces for remote
// failures
type APIError struct {
	Message   string        `json:"message"`
	Category  ErrorCategory `json:"category"`
	Retryable bool          `json:"retryable"`
}

func (e *APIError) Error() string {
	return e.Message
}

// IsRetryable reports whether err is an APIError flagged retryable. Anything
// that isn't an APIError is treated as non-retryable.
func IsRetryable(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Retryable
	}
	return false
}
