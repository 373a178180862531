package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Excluder filters source files by glob patterns. Only immediate files of the
// source are imported, so patterns match the base name; a pattern with a
// separator is matched against the last path elements instead.
type Excluder struct {
	patterns []string
}

// NewExcluder validates patterns and returns an excluder
func NewExcluder(patterns []string) (*Excluder, error) {
	kept := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		pattern = filepath.ToSlash(pattern)
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		kept = append(kept, pattern)
	}
	return &Excluder{patterns: kept}, nil
}

// Excluded reports whether path matches any pattern
func (e *Excluder) Excluded(path string) bool {
	if e == nil || len(e.patterns) == 0 {
		return false
	}

	normalizedPath := filepath.ToSlash(path)
	baseName := filepath.Base(path)

	for _, pattern := range e.patterns {
		if !strings.Contains(pattern, "/") {
			if matched, _ := filepath.Match(pattern, baseName); matched {
				return true
			}
			continue
		}

		// Compare against as many trailing elements as the pattern has
		depth := strings.Count(pattern, "/") + 1
		parts := strings.Split(normalizedPath, "/")
		if len(parts) < depth {
			continue
		}
		tail := strings.Join(parts[len(parts)-depth:], "/")
		if matched, _ := filepath.Match(pattern, tail); matched {
			return true
		}
	}

	return false
}

// Patterns returns the active patterns
func (e *Excluder) Patterns() []string {
	return e.patterns
}
