package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sdejongh/photonorris/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	mu         sync.Mutex
	writer     io.Writer
	totalFiles int
	totalBytes int64
	startTime  time.Time
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64, maxWorkers int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.totalFiles = totalFiles
	f.totalBytes = totalBytes
	f.startTime = time.Now()

	fmt.Fprintf(writer, "Starting import: %d files, %s total\n",
		totalFiles, formatBytes(totalBytes))

	return nil
}

// Progress reports progress during the import
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case "file_complete":
		verb := "copied"
		if update.Operation == models.OperationMove {
			verb = "moved"
		}
		if update.DryRun {
			verb = "would be " + verb
		}
		fmt.Fprintf(f.writer, "[%d/%d] ✓ %s -> %s (%s, %s, %s)\n",
			update.CurrentFile, f.totalFiles,
			update.FilePath, update.Destination,
			update.Datestamp, update.Strategy, verb)

	case "file_error":
		fmt.Fprintf(f.writer, "[%d/%d] ✗ %s: %v\n",
			update.CurrentFile, f.totalFiles,
			update.FilePath, update.Error)
	}

	return nil
}

// Complete finalizes output and displays summary
func (f *HumanFormatter) Complete(report *models.ImportReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer == nil {
		f.writer = os.Stdout
	}

	title := "Import"
	if report.DryRun {
		title = "Dry run"
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "%s completed in %s\n", title, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Summary:\n")
	fmt.Fprintf(f.writer, "  Source:   %s\n", report.SourcePath)
	fmt.Fprintf(f.writer, "  Library:  %s\n", report.LibraryPath)
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "  Files:\n")
	fmt.Fprintf(f.writer, "    Scanned:        %d\n", report.Stats.FilesScanned.Load())
	fmt.Fprintf(f.writer, "    Excluded:       %d\n", report.Stats.FilesExcluded.Load())
	if report.DryRun {
		fmt.Fprintf(f.writer, "    Planned:        %d\n", report.Stats.FilesPlanned.Load())
	} else {
		fmt.Fprintf(f.writer, "    Copied:         %d\n", report.Stats.FilesCopied.Load())
		fmt.Fprintf(f.writer, "    Moved:          %d\n", report.Stats.FilesMoved.Load())
		if verified := report.Stats.FilesVerified.Load(); verified > 0 {
			fmt.Fprintf(f.writer, "    Verified:       %d\n", verified)
		}
	}
	fmt.Fprintf(f.writer, "    Errored:        %d\n", report.Stats.FilesErrored.Load())
	fmt.Fprintf(f.writer, "    Dirs created:   %d\n", report.Stats.DirsCreated.Load())
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "  Transfer:\n")
	fmt.Fprintf(f.writer, "    Data:           %s\n", formatBytes(report.Stats.BytesTransferred.Load()))

	if report.Duration.Seconds() > 0 && !report.DryRun {
		avgSpeed := float64(report.Stats.BytesTransferred.Load()) / report.Duration.Seconds()
		fmt.Fprintf(f.writer, "    Average speed:  %s/s\n", formatBytes(int64(avgSpeed)))
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Status: %s\n", report.Status)

	if len(report.Errors) > 0 {
		fmt.Fprintf(f.writer, "\nErrors:\n")
		for _, err := range report.Errors {
			fmt.Fprintf(f.writer, "  %s [%s]: %s\n", err.FilePath, err.Kind, err.Error)
		}
	}

	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
