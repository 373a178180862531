package output

import (
	"io"

	"github.com/sdejongh/photonorris/pkg/models"
)

// ProgressUpdate represents a progress notification during an import
type ProgressUpdate struct {
	Type        string // "file_start", "file_complete", "file_error"
	FilePath    string
	Destination string
	Datestamp   string
	Strategy    string
	Operation   models.Operation
	DryRun      bool
	Bytes       int64
	CurrentFile int
	TotalFiles  int
	Error       error
}

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress bar formatters.
// Progress is called concurrently by the import workers.
type Formatter interface {
	// Start initializes the formatter for a new import session
	// maxWorkers indicates the number of parallel workers for display purposes
	Start(writer io.Writer, totalFiles int, totalBytes int64, maxWorkers int) error

	// Progress reports progress during the import
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays summary
	Complete(report *models.ImportReport) error

	// Error reports an error that stopped the import
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter registered under name
func New(name string) (Formatter, bool) {
	switch name {
	case "human":
		return NewHumanFormatter(), true
	case "json":
		return NewJSONFormatter(), true
	case "progress":
		return NewProgressFormatter(), true
	default:
		return nil, false
	}
}
