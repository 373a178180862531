package importer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sdejongh/photonorris/pkg/compare"
	"github.com/sdejongh/photonorris/pkg/library"
	"github.com/sdejongh/photonorris/pkg/logging"
	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/output"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// BatchImporter imports every immediate file of a source directory using a
// pool of workers fed by a bounded queue
type BatchImporter struct {
	planner   *Planner
	backend   storage.Backend
	formatter output.Formatter
	logger    logging.Logger
	session   *models.ImportSession
	excluder  *Excluder
	verifier  compare.Comparator

	// Task queue
	taskQueue chan storage.FileInfo
	queueSize int

	processedFiles atomic.Int32
	totalFiles     int

	// Date directories created during this session, counted once each
	createdDirs sync.Map
}

// BatchConfig holds configuration for the batch importer
type BatchConfig struct {
	QueueSize int // Buffer size for the task queue
	// Verifier checks every copied file against its source (nil = no check)
	Verifier compare.Comparator
}

// DefaultBatchConfig returns sensible defaults
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		QueueSize: 256,
	}
}

// NewBatchImporter creates a batch importer. formatter may be nil.
func NewBatchImporter(
	planner *Planner,
	backend storage.Backend,
	formatter output.Formatter,
	logger logging.Logger,
	session *models.ImportSession,
	config BatchConfig,
) (*BatchImporter, error) {
	excluder, err := NewExcluder(session.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if config.QueueSize < 1 {
		config.QueueSize = 1
	}

	return &BatchImporter{
		planner:   planner,
		backend:   backend,
		formatter: formatter,
		logger:    logger.WithFields(logging.Fields{"session_id": session.ID}),
		session:   session,
		excluder:  excluder,
		verifier:  config.Verifier,
		taskQueue: make(chan storage.FileInfo, config.QueueSize),
		queueSize: config.QueueSize,
	}, nil
}

// Run imports the files of sourceDir into the library described by index.
// A failing file is recorded in the report and never stops the batch.
// Cancelling ctx stops scheduling files; files already being imported are
// finished so no destination is left half written. Run may only be called
// once per BatchImporter.
func (b *BatchImporter) Run(ctx context.Context, sourceDir string, index *library.Index) (*models.ImportReport, error) {
	report := &models.ImportReport{
		SessionID:   b.session.ID,
		SourcePath:  sourceDir,
		LibraryPath: index.Root(),
		Operation:   b.planner.Operation(),
		DryRun:      b.session.DryRun,
		StartTime:   time.Now(),
		Status:      models.StatusSuccess,
	}

	b.logger.Info(ctx, "Starting import", logging.Fields{
		"source":      sourceDir,
		"library":     index.Root(),
		"operation":   report.Operation,
		"dry_run":     report.DryRun,
		"max_workers": b.session.MaxWorkers,
	})

	// Phase 1: list the source (non-recursive)
	files, err := b.scanSource(ctx, sourceDir, report)
	if err != nil {
		b.logger.Error(ctx, "Failed to scan source", err, logging.Fields{"source": sourceDir})
		report.Finalize(false)
		report.Status = models.StatusFailed
		return report, err
	}

	var totalBytes int64
	for _, f := range files {
		totalBytes += f.Size
	}
	b.totalFiles = len(files)

	workerCount := b.session.MaxWorkers
	if workerCount < 1 {
		workerCount = 1
	}

	if b.formatter != nil {
		b.formatter.Start(nil, len(files), totalBytes, workerCount)
	}

	// Phase 2: start workers, then feed the queue
	var workersWg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		workersWg.Add(1)
		go b.runWorker(ctx, i, index, report, &workersWg)
	}

	cancelled := b.enqueue(ctx, files)
	close(b.taskQueue)
	workersWg.Wait()

	// Workers leave queued files behind once ctx is done
	if !cancelled && ctx.Err() != nil && int(b.processedFiles.Load()) < len(files) {
		b.logger.Warn(ctx, "Import cancelled, queued files left in source", logging.Fields{
			"processed": b.processedFiles.Load(),
			"listed":    len(files),
		})
		cancelled = true
	}

	// Phase 3: report
	report.Finalize(cancelled)
	report.SortResults()

	if b.formatter != nil {
		b.formatter.Complete(report)
	}

	b.logger.Info(ctx, "Import completed", logging.Fields{
		"duration":          report.Duration.String(),
		"status":            report.Status,
		"files_copied":      report.Stats.FilesCopied.Load(),
		"files_moved":       report.Stats.FilesMoved.Load(),
		"files_planned":     report.Stats.FilesPlanned.Load(),
		"files_errored":     report.Stats.FilesErrored.Load(),
		"files_verified":    report.Stats.FilesVerified.Load(),
		"dirs_created":      report.Stats.DirsCreated.Load(),
		"bytes_transferred": report.Stats.BytesTransferred.Load(),
	})

	return report, nil
}

// scanSource lists the importable files of sourceDir
func (b *BatchImporter) scanSource(ctx context.Context, sourceDir string, report *models.ImportReport) ([]storage.FileInfo, error) {
	listed, err := b.backend.ListFiles(ctx, sourceDir)
	if err != nil {
		return nil, err
	}

	files := make([]storage.FileInfo, 0, len(listed))
	for _, f := range listed {
		report.Stats.FilesScanned.Add(1)
		if b.excluder.Excluded(f.Path) {
			report.Stats.FilesExcluded.Add(1)
			b.logger.Debug(ctx, "File excluded", logging.Fields{"path": f.Path})
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

// enqueue feeds files to the workers and reports whether it was cancelled
func (b *BatchImporter) enqueue(ctx context.Context, files []storage.FileInfo) bool {
	for _, f := range files {
		select {
		case <-ctx.Done():
			b.logger.Warn(ctx, "Import cancelled, no further files scheduled", nil)
			return true
		case b.taskQueue <- f:
		}
	}
	return false
}

// runWorker is the worker goroutine that processes files
func (b *BatchImporter) runWorker(ctx context.Context, workerID int, index *library.Index, report *models.ImportReport, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case file, ok := <-b.taskQueue:
			if !ok {
				// Queue is closed and empty, worker exits
				return
			}
			b.processFile(ctx, workerID, file, index, report)
		}
	}
}

// processFile plans and executes the import of a single file. Once started it
// runs to completion even if ctx is cancelled.
func (b *BatchImporter) processFile(ctx context.Context, workerID int, file storage.FileInfo, index *library.Index, report *models.ImportReport) {
	ctx = context.WithoutCancel(ctx)
	startTime := time.Now()
	fileIndex := int(b.processedFiles.Add(1))

	b.progress(output.ProgressUpdate{
		Type:        "file_start",
		FilePath:    file.Path,
		Bytes:       file.Size,
		CurrentFile: fileIndex,
		TotalFiles:  b.totalFiles,
	})

	result := models.ImportResult{
		SourcePath: file.Path,
		Operation:  b.planner.Operation(),
	}

	task, err := b.planner.Plan(ctx, file.Path, index)
	if err != nil {
		b.fail(ctx, workerID, fileIndex, result, err, startTime, report)
		return
	}

	result.Datestamp = task.Datestamp
	result.Strategy = task.Strategy
	result.DestinationPath = task.Target()
	result.CreatedDir = task.CreatedDir

	if task.CreatedDir {
		if _, seen := b.createdDirs.LoadOrStore(task.Destination.Dir(), struct{}{}); !seen {
			report.Stats.DirsCreated.Add(1)
		}
	}

	if b.session.DryRun {
		report.Stats.FilesPlanned.Add(1)
	} else {
		dest, err := task.Execute(ctx, b.backend)
		if err != nil {
			b.fail(ctx, workerID, fileIndex, result, err, startTime, report)
			return
		}
		result.DestinationPath = dest
		result.BytesWritten = file.Size

		if task.Operation != models.OperationMove && b.verifier != nil {
			if err := b.verify(ctx, task.SourcePath, dest); err != nil {
				b.fail(ctx, workerID, fileIndex, result, err, startTime, report)
				return
			}
			report.Stats.FilesVerified.Add(1)
		}

		if task.Operation == models.OperationMove {
			report.Stats.FilesMoved.Add(1)
		} else {
			report.Stats.FilesCopied.Add(1)
		}
		report.Stats.BytesTransferred.Add(file.Size)
	}

	result.Duration = time.Since(startTime)
	report.AddResult(result)

	b.logger.Debug(ctx, "File imported", logging.Fields{
		"worker":      workerID,
		"source":      result.SourcePath,
		"destination": result.DestinationPath,
		"datestamp":   result.Datestamp.String(),
		"strategy":    result.Strategy,
		"dry_run":     b.session.DryRun,
	})

	b.progress(output.ProgressUpdate{
		Type:        "file_complete",
		FilePath:    file.Path,
		Destination: result.DestinationPath,
		Datestamp:   result.Datestamp.String(),
		Strategy:    result.Strategy,
		Operation:   result.Operation,
		DryRun:      b.session.DryRun,
		Bytes:       file.Size,
		CurrentFile: fileIndex,
		TotalFiles:  b.totalFiles,
	})
}

func (b *BatchImporter) fail(ctx context.Context, workerID, fileIndex int, result models.ImportResult, err error, startTime time.Time, report *models.ImportReport) {
	result.Err = err
	result.Duration = time.Since(startTime)
	report.Stats.FilesErrored.Add(1)
	report.AddResult(result)

	b.logger.Warn(ctx, "File not imported", logging.Fields{
		"worker": workerID,
		"source": result.SourcePath,
		"kind":   models.ErrorKind(err),
		"error":  err.Error(),
	})

	b.progress(output.ProgressUpdate{
		Type:        "file_error",
		FilePath:    result.SourcePath,
		CurrentFile: fileIndex,
		TotalFiles:  b.totalFiles,
		Error:       err,
	})
}

// verify compares a copied file with its source
func (b *BatchImporter) verify(ctx context.Context, source, dest string) error {
	cmp, err := b.verifier.Compare(ctx, b.backend, source, dest)
	if err != nil {
		return fmt.Errorf("failed to verify %s: %w", dest, err)
	}
	if cmp.Result != compare.Same {
		return fmt.Errorf("%s: %s: %w", dest, cmp.Reason, models.ErrVerificationFailed)
	}
	return nil
}

func (b *BatchImporter) progress(update output.ProgressUpdate) {
	if b.formatter != nil {
		b.formatter.Progress(update)
	}
}
