package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/photonorris/pkg/models"
)

const progressTemplate = `{{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{etime . }} {{string . "file" | printf "%.40s"}}`

// ProgressFormatter draws a single progress bar advancing once per file and
// prints the human summary at the end
type ProgressFormatter struct {
	mu      sync.Mutex
	writer  io.Writer
	bar     *pb.ProgressBar
	summary *HumanFormatter
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{summary: NewHumanFormatter()}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64, maxWorkers int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer

	bar := pb.ProgressBarTemplate(progressTemplate).New(totalFiles)
	bar.SetWriter(writer)
	bar.Set("file", "")
	bar.SetRefreshRate(100 * time.Millisecond)

	// Keep the bar on one line
	if file, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			bar.SetWidth(width)
		}
	}

	f.bar = bar.Start()
	return nil
}

// Progress reports progress during the import
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return nil
	}

	switch update.Type {
	case "file_start":
		f.bar.Set("file", filepath.Base(update.FilePath))
	case "file_complete", "file_error":
		f.bar.Increment()
	}

	return nil
}

// Complete stops the bar and prints the summary
func (f *ProgressFormatter) Complete(report *models.ImportReport) error {
	f.mu.Lock()
	if f.bar != nil {
		f.bar.Set("file", "")
		f.bar.Finish()
	}
	writer := f.writer
	f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}

	// Summary goes through the human formatter without its start banner
	f.summary.mu.Lock()
	f.summary.writer = writer
	f.summary.mu.Unlock()

	return f.summary.Complete(report)
}

// Error reports an error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil && f.bar.IsStarted() {
		f.bar.Finish()
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
