package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/sdejongh/photonorris/pkg/compare"
	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/output"
	"github.com/sdejongh/photonorris/pkg/storage"
)

func TestBatchPartialFailure(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("2016-01-02 10.00.00.jpg", []byte("ok"), localNoon(2019, 5, 5))
	h.CreateSourceFile("undated.jpg", []byte("undated"), localNoon(2019, 5, 5))

	extractor := mustExtractor(t, h, "filename")
	batch, err := NewBatchImporter(NewPlanner(extractor, h.backend), h.backend, nil, nil, h.Session(models.OperationCopy, false), DefaultBatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	report, err := batch.Run(context.Background(), h.sourceDir, h.Index())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusPartial {
		t.Errorf("Status = %s, want partial", report.Status)
	}
	if report.Status.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", report.Status.ExitCode())
	}
	if len(report.Results) != 2 || len(report.Errors) != 1 {
		t.Fatalf("results = %d, errors = %d, want 2 and 1", len(report.Results), len(report.Errors))
	}
	if report.Errors[0].Kind != "no_datestamp_found" {
		t.Errorf("error kind = %s, want no_datestamp_found", report.Errors[0].Kind)
	}
	if !errors.Is(report.Err(), models.ErrNoDatestampFound) {
		t.Errorf("Err() = %v, want ErrNoDatestampFound", report.Err())
	}
	if report.Stats.FilesCopied.Load() != 1 || report.Stats.FilesErrored.Load() != 1 {
		t.Errorf("copied = %d, errored = %d", report.Stats.FilesCopied.Load(), report.Stats.FilesErrored.Load())
	}

	h.AssertFileContent(h.LibraryPath("2016-01-02", "2016-01-02 10.00.00.jpg"), []byte("ok"))
	h.AssertExists(h.SourcePath("undated.jpg"))
}

func TestBatchAllFailed(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("a.jpg", []byte("a"), localNoon(2019, 5, 5))
	h.CreateSourceFile("b.jpg", []byte("b"), localNoon(2019, 5, 5))

	extractor := mustExtractor(t, h, "filename")
	batch, err := NewBatchImporter(NewPlanner(extractor, h.backend), h.backend, nil, nil, h.Session(models.OperationCopy, false), DefaultBatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	report, err := batch.Run(context.Background(), h.sourceDir, h.Index())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Status != models.StatusFailed {
		t.Errorf("Status = %s, want failed", report.Status)
	}
}

func TestBatchMissingSource(t *testing.T) {
	h := NewTestHelper(t)
	batch, err := NewBatchImporter(h.Planner(), h.backend, nil, nil, h.Session(models.OperationCopy, false), DefaultBatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	report, err := batch.Run(context.Background(), h.SourcePath("missing"), h.Index())
	if !errors.Is(err, models.ErrSourceNotFound) {
		t.Fatalf("Run() error = %v, want ErrSourceNotFound", err)
	}
	if report == nil || report.Status != models.StatusFailed {
		t.Errorf("report = %+v, want failed status", report)
	}
}

func TestBatchExcludes(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("2016-01-02.jpg", []byte("keep"), localNoon(2019, 5, 5))
	h.CreateSourceFile("2016-01-02.xmp", []byte("sidecar"), localNoon(2019, 5, 5))
	h.CreateSourceFile(".hidden.jpg", []byte("hidden"), localNoon(2019, 5, 5))

	session := h.Session(models.OperationCopy, false)
	session.ExcludePatterns = []string{"*.xmp", ".*"}

	batch, err := NewBatchImporter(h.Planner(), h.backend, nil, nil, session, DefaultBatchConfig())
	if err != nil {
		t.Fatal(err)
	}
	report, err := batch.Run(context.Background(), h.sourceDir, h.Index())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Stats.FilesScanned.Load() != 3 || report.Stats.FilesExcluded.Load() != 2 {
		t.Errorf("scanned = %d, excluded = %d, want 3 and 2", report.Stats.FilesScanned.Load(), report.Stats.FilesExcluded.Load())
	}
	if len(report.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(report.Results))
	}
	h.AssertNotExists(h.LibraryPath("2016-01-02", "2016-01-02.xmp"))
}

func TestBatchInvalidExcludePattern(t *testing.T) {
	h := NewTestHelper(t)
	session := h.Session(models.OperationCopy, false)
	session.ExcludePatterns = []string{"[a-"}

	if _, err := NewBatchImporter(h.Planner(), h.backend, nil, nil, session, DefaultBatchConfig()); err == nil {
		t.Error("NewBatchImporter() should reject malformed exclude patterns")
	}
}

func TestBatchCancelledBeforeStart(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("2016-01-02.jpg", []byte("a"), localNoon(2019, 5, 5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := NewBatchImporter(h.Planner(), h.backend, nil, nil, h.Session(models.OperationCopy, false), DefaultBatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	report, err := batch.Run(ctx, h.sourceDir, h.Index())
	if err == nil {
		if report.Status != models.StatusCancelled {
			t.Errorf("Status = %s, want cancelled", report.Status)
		}
		if report.Status.ExitCode() != 3 {
			t.Errorf("ExitCode() = %d, want 3", report.Status.ExitCode())
		}
	} else if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	h.AssertExists(h.SourcePath("2016-01-02.jpg"))
}

func TestBatchCancelledMidway(t *testing.T) {
	h := NewTestHelper(t)
	for day := 1; day <= 10; day++ {
		name := fmt.Sprintf("2016-01-%02d.jpg", day)
		h.CreateSourceFile(name, []byte(name), localNoon(2019, 5, 5))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := h.Session(models.OperationMove, false)
	session.MaxWorkers = 1

	batch, err := NewBatchImporter(h.Planner(WithOperation(models.OperationMove)), h.backend, &cancelOnComplete{cancel: cancel}, nil, session, DefaultBatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	report, err := batch.Run(ctx, h.sourceDir, h.Index())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusCancelled {
		t.Errorf("Status = %s, want cancelled", report.Status)
	}
	if report.Status.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d, want 3", report.Status.ExitCode())
	}
	if len(report.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(report.Results))
	}

	remaining, err := os.ReadDir(h.sourceDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 9 {
		t.Errorf("source holds %d files, want 9", len(remaining))
	}
}

// cancelOnComplete cancels the import as soon as one file is done
type cancelOnComplete struct {
	cancel context.CancelFunc
}

func (f *cancelOnComplete) Start(io.Writer, int, int64, int) error { return nil }

func (f *cancelOnComplete) Progress(update output.ProgressUpdate) error {
	if update.Type == "file_complete" {
		f.cancel()
	}
	return nil
}

func (f *cancelOnComplete) Complete(*models.ImportReport) error { return nil }
func (f *cancelOnComplete) Error(error) error { return nil }
func (f *cancelOnComplete) Name() string { return "cancel" }

func TestBatchSameNewDateCountedOnce(t *testing.T) {
	h := NewTestHelper(t)
	for _, name := range []string{"2018-01-01 a.jpg", "2018-01-01 b.jpg", "2018-01-01 c.jpg", "2018-01-01 d.jpg"} {
		h.CreateSourceFile(name, []byte(name), localNoon(2019, 5, 5))
	}

	report := h.Import(models.OperationCopy, false)

	if report.Status != models.StatusSuccess {
		t.Fatalf("Status = %s, errors = %v", report.Status, report.Errors)
	}
	if report.Stats.DirsCreated.Load() != 1 {
		t.Errorf("DirsCreated = %d, want 1", report.Stats.DirsCreated.Load())
	}
	entries, err := os.ReadDir(h.LibraryPath("2018-01-01"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("2018-01-01 holds %d files, want 4", len(entries))
	}
}

func TestBatchFormatterEvents(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("2016-01-02.jpg", []byte("a"), localNoon(2019, 5, 5))

	var buf bytes.Buffer
	formatter := &recordingFormatter{JSONFormatter: output.NewJSONFormatter(), out: &buf}

	batch, err := NewBatchImporter(h.Planner(), h.backend, formatter, nil, h.Session(models.OperationCopy, false), DefaultBatchConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := batch.Run(context.Background(), h.sourceDir, h.Index()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if strings.Join(formatter.types, ",") != "file_start,file_complete" {
		t.Errorf("progress events = %v", formatter.types)
	}

	var data output.JSONReportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if data.Status != "success" || len(data.Files) != 1 || data.Files[0].Datestamp != "2016-01-02" {
		t.Errorf("JSON report = %+v", data)
	}
}

// recordingFormatter writes JSON to out and remembers progress event types
type recordingFormatter struct {
	*output.JSONFormatter
	out   *bytes.Buffer
	mu    sync.Mutex
	types []string
}

func (f *recordingFormatter) Start(_ io.Writer, totalFiles int, totalBytes int64, maxWorkers int) error {
	return f.JSONFormatter.Start(f.out, totalFiles, totalBytes, maxWorkers)
}

func (f *recordingFormatter) Progress(update output.ProgressUpdate) error {
	f.mu.Lock()
	f.types = append(f.types, update.Type)
	f.mu.Unlock()
	return f.JSONFormatter.Progress(update)
}

func TestBatchVerifiesCopies(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("2016-01-02.jpg", []byte("first"), localNoon(2019, 5, 5))
	h.CreateSourceFile("2016-01-03.jpg", []byte("second"), localNoon(2019, 5, 5))

	config := DefaultBatchConfig()
	config.Verifier = compare.NewHashComparator(4096)
	batch, err := NewBatchImporter(h.Planner(), h.backend, nil, nil, h.Session(models.OperationCopy, false), config)
	if err != nil {
		t.Fatal(err)
	}

	report, err := batch.Run(context.Background(), h.sourceDir, h.Index())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}
	if got := report.Stats.FilesVerified.Load(); got != 2 {
		t.Errorf("FilesVerified = %d, want 2", got)
	}
}

// mismatchComparator reports every pair as different
type mismatchComparator struct{}

func (mismatchComparator) Compare(ctx context.Context, backend storage.Backend, sourcePath, destPath string) (*compare.Comparison, error) {
	return &compare.Comparison{SourcePath: sourcePath, DestPath: destPath, Result: compare.Different, Reason: "file hashes differ"}, nil
}

func (mismatchComparator) Name() string { return "mismatch" }

func TestBatchVerificationFailure(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("2016-01-02.jpg", []byte("first"), localNoon(2019, 5, 5))

	config := DefaultBatchConfig()
	config.Verifier = mismatchComparator{}
	batch, err := NewBatchImporter(h.Planner(), h.backend, nil, nil, h.Session(models.OperationCopy, false), config)
	if err != nil {
		t.Fatal(err)
	}

	report, err := batch.Run(context.Background(), h.sourceDir, h.Index())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Status != models.StatusFailed {
		t.Errorf("Status = %s, want failed", report.Status)
	}
	if len(report.Errors) != 1 || report.Errors[0].Kind != "verification_failed" {
		t.Fatalf("errors = %+v, want one verification_failed", report.Errors)
	}
	if report.Stats.FilesCopied.Load() != 0 || report.Stats.FilesVerified.Load() != 0 {
		t.Errorf("copied = %d, verified = %d, want 0 and 0", report.Stats.FilesCopied.Load(), report.Stats.FilesVerified.Load())
	}
}

func TestBatchMoveSkipsVerification(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("2016-01-02.jpg", []byte("first"), localNoon(2019, 5, 5))

	config := DefaultBatchConfig()
	config.Verifier = mismatchComparator{}
	batch, err := NewBatchImporter(h.Planner(WithOperation(models.OperationMove)), h.backend, nil, nil, h.Session(models.OperationMove, false), config)
	if err != nil {
		t.Fatal(err)
	}

	report, err := batch.Run(context.Background(), h.sourceDir, h.Index())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}
	if report.Stats.FilesVerified.Load() != 0 {
		t.Errorf("FilesVerified = %d, want 0", report.Stats.FilesVerified.Load())
	}
}
