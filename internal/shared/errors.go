package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrAuthRequired = fmt.Errorf("authentication required")
	ErrNoSession    = fmt.Errorf("no stored session")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrBookNotFound       = fmt.Errorf("book not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// APIError describes a non-2xx response from the backend or identity provider.
type APIError struct {
	Status  int    // HTTP status code
	Message string // Message parsed from the response body, if any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// NewAPIError constructs an [APIError] for the given status and message.
func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

// NetworkError wraps a transport-level failure (connection refused, DNS, etc).
// Distinct from [APIError]: the request never produced an HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
