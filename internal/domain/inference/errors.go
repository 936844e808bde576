package inference

import (
	"errors"
	"fmt"
	"time"

	"medisage-api/internal/domain/model"
)

// ErrUnsupported is returned by an adapter asked for an operation its protocol lacks.
var ErrUnsupported = errors.New("operation not supported by provider")

// ProviderError is a non-success upstream response.
type ProviderError struct {
	Provider model.ProviderKind
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Message)
}

// ProviderTimeoutError means the upstream call exceeded its bound. Any late reply is discarded.
type ProviderTimeoutError struct {
	Provider model.ProviderKind
	After    time.Duration
}

func (e *ProviderTimeoutError) Error() string {
	return fmt.Sprintf("%s did not respond within %s", e.Provider, e.After)
}

// ProviderParseError means the upstream payload could not be decoded into the expected shape.
// Raw is kept for diagnosis and must not reach clients.
type ProviderParseError struct {
	Provider model.ProviderKind
	Raw      string
	Err      error
}

func (e *ProviderParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unparsable %s response: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("unparsable %s response", e.Provider)
}

func (e *ProviderParseError) Unwrap() error {
	return e.Err
}

// Classify names the provider failure class of err for metrics and logs.
func Classify(err error) string {
	var (
		providerErr *ProviderError
		timeoutErr  *ProviderTimeoutError
		parseErr    *ProviderParseError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &providerErr):
		return "upstream_status"
	default:
		return "transport"
	}
}
