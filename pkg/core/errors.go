package core

import (
	"fmt"

	"github.com/oneconcern/solsync/pkg/core/status"
)

// ConfigurationError reports a bundle which cannot be synchronized as configured,
// e.g. when the bundle does not exist remotely or the packaging tool is missing.
type ConfigurationError struct {
	Bundle string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Bundle == "" {
		return fmt.Sprintf("%v: %v", status.ErrConfiguration, e.Err)
	}
	return fmt.Sprintf("%v for %s: %v", status.ErrConfiguration, e.Bundle, e.Err)
}

// Unwrap the cause
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is matches status.ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == status.ErrConfiguration
}
