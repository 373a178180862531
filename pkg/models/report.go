package models

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sdejongh/photonorris/pkg/datestamp"
	"go.uber.org/multierr"
)

// ImportResult is the outcome of importing one file
type ImportResult struct {
	SourcePath      string
	DestinationPath string
	Datestamp       datestamp.Datestamp
	Strategy        string
	Operation       Operation
	CreatedDir      bool
	BytesWritten    int64
	Duration        time.Duration
	Err             error
}

// Succeeded reports whether the file reached its destination
func (r *ImportResult) Succeeded() bool {
	return r.Err == nil
}

// ImportReport holds the results of an import session
type ImportReport struct {
	// Session details
	SessionID   string
	SourcePath  string
	LibraryPath string
	Operation   Operation
	DryRun      bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Stats Statistics

	// Per-file outcomes, in completion order
	Results []ImportResult

	// Errors encountered
	Errors []ImportError

	// Overall status
	Status ImportStatus

	mu sync.Mutex
}

// Statistics holds import metrics. Counters are updated concurrently by workers.
type Statistics struct {
	FilesScanned  atomic.Int32
	FilesExcluded atomic.Int32
	FilesCopied   atomic.Int32
	FilesMoved    atomic.Int32
	FilesPlanned  atomic.Int32 // dry-run only
	FilesErrored  atomic.Int32
	FilesVerified atomic.Int32
	DirsCreated   atomic.Int32

	BytesTransferred atomic.Int64
}

// ImportStatus represents the overall result
type ImportStatus string

const (
	// StatusSuccess indicates all files were imported
	StatusSuccess ImportStatus = "success"
	// StatusPartial indicates some files failed
	StatusPartial ImportStatus = "partial"
	// StatusFailed indicates every file failed or the session could not run
	StatusFailed ImportStatus = "failed"
	// StatusCancelled indicates the session was cancelled
	StatusCancelled ImportStatus = "cancelled"
)

// ImportError represents a per-file failure
type ImportError struct {
	FilePath  string
	Kind      string
	Error     string
	Timestamp time.Time
}

// ExitCode returns the appropriate exit code for the import status
func (s ImportStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}

// AddResult records a per-file outcome and updates the error list
func (r *ImportReport) AddResult(result ImportResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Results = append(r.Results, result)
	if result.Err != nil {
		r.Errors = append(r.Errors, ImportError{
			FilePath:  result.SourcePath,
			Kind:      ErrorKind(result.Err),
			Error:     result.Err.Error(),
			Timestamp: time.Now(),
		})
	}
}

// SortResults orders results by destination, then source. Results that
// never got a destination sort first.
func (r *ImportReport) SortResults() {
	r.mu.Lock()
	defer r.mu.Unlock()

	sort.SliceStable(r.Results, func(i, j int) bool {
		a, b := r.Results[i], r.Results[j]
		if a.DestinationPath != b.DestinationPath {
			return a.DestinationPath < b.DestinationPath
		}
		return a.SourcePath < b.SourcePath
	})
}

// Err combines every per-file error, or returns nil when all succeeded
func (r *ImportReport) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	for i := range r.Results {
		err = multierr.Append(err, r.Results[i].Err)
	}
	return err
}

// Finalize sets timing and derives the status from the recorded results
func (r *ImportReport) Finalize(cancelled bool) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case cancelled:
		r.Status = StatusCancelled
	case len(r.Errors) == 0:
		r.Status = StatusSuccess
	case len(r.Errors) == len(r.Results):
		r.Status = StatusFailed
	default:
		r.Status = StatusPartial
	}
}
