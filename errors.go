package gitversioning

import (
	"errors"
	"fmt"
)

var (
	// ErrRepositoryRequired is returned when no repository is supplied.
	ErrRepositoryRequired = errors.New("repository is required")

	// ErrParentCycle is returned when a project is its own ancestor.
	ErrParentCycle = errors.New("project parent chain contains a cycle")

	// ErrInvalidConfiguration is matched by every *ConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ConfigurationError reports a rule that cannot be used. It aborts
// resolution before any version is produced.
type ConfigurationError struct {
	// Rule locates the offending rule, e.g. "tag[1]"
	Rule    string
	Pattern string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Rule, e.Err)
	}
	return fmt.Sprintf("invalid configuration: %s: pattern %q: %v", e.Rule, e.Pattern, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrInvalidConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}
