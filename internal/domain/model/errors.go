package model

import (
	"errors"
	"fmt"
)

var ErrModelNotFound = errors.New("model not found")

// CapabilityDeniedError is returned when the caller's tier cannot use the requested capability or model.
// It is an expected outcome, not a failure.
type CapabilityDeniedError struct {
	Tier       Tier
	Capability Capability
	ModelID    string
}

func (e *CapabilityDeniedError) Error() string {
	if e.ModelID != "" {
		return fmt.Sprintf("model %q does not offer %s on the %s tier", e.ModelID, e.Capability, e.Tier)
	}
	return fmt.Sprintf("%s is not available on the %s tier", e.Capability, e.Tier)
}

// IsCapabilityDenied reports whether err carries a CapabilityDeniedError.
func IsCapabilityDenied(err error) bool {
	var denied *CapabilityDeniedError
	return errors.As(err, &denied)
}
