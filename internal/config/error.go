package config

import (
	"fmt"
	"strings"
)

// MissingVar is a ${NAME} reference with no value in the environment.
type MissingVar struct {
	Name string
	Key  string // section.key that references it, for example "sonarr.api_key"
}

func (m MissingVar) String() string {
	if m.Key == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Key)
}

// ConfigError reports everything wrong with a config file at once so a
// user can fix it in one edit.
type ConfigError struct {
	Path    string
	Missing []MissingVar
	Errors  []string // Validate output
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "invalid config %s:", e.Path)
	if len(e.Missing) > 0 {
		b.WriteString("\nunset environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(&b, "\n  - %s", m)
		}
	}
	if len(e.Errors) > 0 {
		b.WriteString("\nvalidation failed:")
		for _, err := range e.Errors {
			fmt.Fprintf(&b, "\n  - %s", err)
		}
	}
	return b.String()
}

// HasErrors reports whether anything was found.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
