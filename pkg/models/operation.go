package models

import (
	"fmt"
	"time"
)

// Operation is what happens to a source file once its destination is known
type Operation string

const (
	// OperationCopy leaves the source in place
	OperationCopy Operation = "copy"
	// OperationMove removes the source once the destination is written
	OperationMove Operation = "move"
)

// ParseOperation converts a user supplied string to an Operation
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OperationCopy, "":
		return OperationCopy, nil
	case OperationMove:
		return OperationMove, nil
	default:
		return "", fmt.Errorf("invalid operation: %s (valid: copy, move)", s)
	}
}

// ImportSession describes one run of the batch importer
type ImportSession struct {
	ID              string
	SourcePath      string
	LibraryPath     string
	Operation       Operation
	ExcludePatterns []string
	Strategies      []string
	DryRun          bool
	Verify          string // none, size or hash; copies only
	MaxWorkers      int
	BandwidthLimit  int64 // bytes per second, 0 = unlimited
	BufferSize      int
	CreatedAt       time.Time
}

// Validate checks if the session configuration is valid
func (s *ImportSession) Validate() error {
	if s.SourcePath == "" {
		return &ValidationError{Field: "SourcePath", Message: "source path is required"}
	}
	if s.LibraryPath == "" {
		return &ValidationError{Field: "LibraryPath", Message: "library path is required"}
	}
	if s.Operation != OperationCopy && s.Operation != OperationMove {
		return &ValidationError{Field: "Operation", Message: "operation must be copy or move"}
	}
	if s.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	if s.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	return nil
}
