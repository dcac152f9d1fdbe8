package policy

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig matches any ConfigError via errors.Is.
var ErrInvalidConfig = errors.New("rebound: invalid policy")

// ConfigError indicates an invalid policy field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("rebound: invalid policy: %s=%v (%s)", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
