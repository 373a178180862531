package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sdejongh/photonorris/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	mu         sync.Mutex
	writer     io.Writer
	totalFiles int
	totalBytes int64
	startTime  time.Time
	events     []JSONEvent
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONReportData represents the final report data
type JSONReportData struct {
	SessionID  string          `json:"session_id"`
	Source     string          `json:"source"`
	Library    string          `json:"library"`
	Operation  string          `json:"operation"`
	DryRun     bool            `json:"dry_run"`
	Status     string          `json:"status"`
	Duration   string          `json:"duration"`
	DurationMs int64           `json:"duration_ms"`
	Stats      JSONStatsData   `json:"stats"`
	Files      []JSONFileData  `json:"files"`
	Errors     []JSONErrorData `json:"errors,omitempty"`
	Events     []JSONEvent     `json:"events,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	FilesScanned     int32 `json:"files_scanned"`
	FilesExcluded    int32 `json:"files_excluded"`
	FilesCopied      int32 `json:"files_copied"`
	FilesMoved       int32 `json:"files_moved"`
	FilesPlanned     int32 `json:"files_planned"`
	FilesErrored     int32 `json:"files_errored"`
	FilesVerified    int32 `json:"files_verified"`
	DirsCreated      int32 `json:"dirs_created"`
	BytesTransferred int64 `json:"bytes_transferred"`
}

// JSONFileData represents the outcome for one file
type JSONFileData struct {
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Datestamp   string `json:"datestamp,omitempty"`
	Strategy    string `json:"strategy,omitempty"`
	CreatedDir  bool   `json:"created_dir,omitempty"`
	Bytes       int64  `json:"bytes,omitempty"`
	Error       string `json:"error,omitempty"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{
		events: make([]JSONEvent, 0),
	}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64, maxWorkers int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.totalFiles = totalFiles
	f.totalBytes = totalBytes
	f.startTime = time.Now()

	f.events = append(f.events, JSONEvent{
		Timestamp: time.Now(),
		Type:      "start",
		Data: map[string]any{
			"total_files": totalFiles,
			"total_bytes": totalBytes,
			"workers":     maxWorkers,
		},
	})

	return nil
}

// Progress reports progress during the import. Events are not written as
// they happen so the output stays a single JSON document.
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	if update.Type != "file_error" {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, JSONEvent{
		Timestamp: time.Now(),
		Type:      update.Type,
		Data: map[string]string{
			"path":  update.FilePath,
			"kind":  models.ErrorKind(update.Error),
			"error": errorString(update.Error),
		},
	})
	return nil
}

// Complete writes the final report
func (f *JSONFormatter) Complete(report *models.ImportReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer == nil {
		f.writer = os.Stdout
	}

	data := BuildJSONReport(report)
	data.Events = f.events

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// BuildJSONReport converts a report to its JSON representation
func BuildJSONReport(report *models.ImportReport) JSONReportData {
	files := make([]JSONFileData, 0, len(report.Results))
	for _, r := range report.Results {
		fd := JSONFileData{
			Source:      r.SourcePath,
			Destination: r.DestinationPath,
			Strategy:    r.Strategy,
			CreatedDir:  r.CreatedDir,
			Bytes:       r.BytesWritten,
		}
		if !r.Datestamp.IsZero() {
			fd.Datestamp = r.Datestamp.String()
		}
		if r.Err != nil {
			fd.Error = r.Err.Error()
		}
		files = append(files, fd)
	}

	var errors []JSONErrorData
	for _, e := range report.Errors {
		errors = append(errors, JSONErrorData{
			Path:  e.FilePath,
			Kind:  e.Kind,
			Error: e.Error,
		})
	}

	return JSONReportData{
		SessionID:  report.SessionID,
		Source:     report.SourcePath,
		Library:    report.LibraryPath,
		Operation:  string(report.Operation),
		DryRun:     report.DryRun,
		Status:     string(report.Status),
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			FilesScanned:     report.Stats.FilesScanned.Load(),
			FilesExcluded:    report.Stats.FilesExcluded.Load(),
			FilesCopied:      report.Stats.FilesCopied.Load(),
			FilesMoved:       report.Stats.FilesMoved.Load(),
			FilesPlanned:     report.Stats.FilesPlanned.Load(),
			FilesErrored:     report.Stats.FilesErrored.Load(),
			FilesVerified:    report.Stats.FilesVerified.Load(),
			DirsCreated:      report.Stats.DirsCreated.Load(),
			BytesTransferred: report.Stats.BytesTransferred.Load(),
		},
		Files:  files,
		Errors: errors,
	}
}

// Error reports an error that stopped the import
func (f *JSONFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	w := f.writer
	if w == nil {
		w = os.Stdout
	}

	return json.NewEncoder(w).Encode(map[string]string{
		"status": string(models.StatusFailed),
		"kind":   models.ErrorKind(err),
		"error":  err.Error(),
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
