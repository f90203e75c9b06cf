// Package ghoutput writes step outputs for GitHub Actions.
package ghoutput

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvVar is the environment variable GitHub Actions uses for the output file.
const EnvVar = "GITHUB_OUTPUT"

// Sink receives key/value outputs of a run.
type Sink interface {
	Set(key, value string) error
}

// FileSink appends key=value lines to a file.
type FileSink struct {
	Path string
}

// NewFileSink creates a sink for path, or returns nil if path is empty.
func NewFileSink(path string) *FileSink {
	if path == "" {
		return nil
	}
	return &FileSink{Path: path}
}

// Set appends "key=value\n" to the file, creating it if needed.
func (s *FileSink) Set(key, value string) error {
	if strings.ContainsAny(key, "=\n") {
		return fmt.Errorf("invalid output key: %q", key)
	}
	if strings.Contains(value, "\n") {
		return fmt.Errorf("multi-line output value for %q is not supported", key)
	}

	f, err := os.OpenFile(filepath.Clean(s.Path), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}

	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return f.Close()
}
