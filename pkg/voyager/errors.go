package voyager

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoConfig indicates no config path was given and none was found in the environment.
	ErrNoConfig = errors.New("no config file")

	// ErrInvalidValue indicates a config value outside its allowed set.
	ErrInvalidValue = errors.New("invalid config value")
)

// ConfigError represents a failure to load or validate configuration.
// The application cannot start navigation until it is fixed.
type ConfigError struct {
	Op  string // Operation or key that failed (e.g., "load", "deeplinks")
	Err error  // Underlying error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("voyager: config %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("voyager: config %s", e.Op)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new config error.
func NewConfigError(op string, err error) *ConfigError {
	return &ConfigError{Op: op, Err: err}
}

// IsConfigError checks if an error is a config error.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
