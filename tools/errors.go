package tools

import (
	"fmt"
	"strings"
)

// ConfigError reports missing process configuration, such as credentials.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s environment variables must be set", strings.Join(e.Missing, " and "))
}

// UnknownToolError is returned for names not present in the registry.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// ValidationError reports arguments rejected by a tool's input schema.
type ValidationError struct {
	Tool    string
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(e.Reasons, "; "))
}
