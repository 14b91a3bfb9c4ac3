// Package apierror provides the error envelopes returned by the API.
// Every 4xx/5xx response body goes through this package so clients can rely on
// {"success": false, "error": "..."}.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Message: msg}
}

// ValidationError wraps per-field validation failures.
type ValidationError struct {
	Success bool              `json:"success"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "validation failed", Fields: fields}
}

// InsufficientStock reports how many units were available when a stock-out was refused.
type InsufficientStock struct {
	Success   bool   `json:"success"`
	Message   string `json:"error"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

func NewInsufficientStock(msg string, available, requested int) *InsufficientStock {
	return &InsufficientStock{Message: msg, Available: available, Requested: requested}
}
