package importer

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sdejongh/photonorris/pkg/extract"
	"github.com/sdejongh/photonorris/pkg/library"
	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// TestHelper provides a source directory, a library and a backend for tests
type TestHelper struct {
	t          *testing.T
	sourceDir  string
	libraryDir string
	backend    *storage.Local
}

// NewTestHelper creates a new test helper
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir := t.TempDir()
	sourceDir := filepath.Join(tempDir, "source")
	libraryDir := filepath.Join(tempDir, "library")

	for _, dir := range []string{sourceDir, libraryDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	return &TestHelper{
		t:          t,
		sourceDir:  sourceDir,
		libraryDir: libraryDir,
		backend:    storage.NewLocal(),
	}
}

// CreateSourceFile creates a file in the source directory. A non-zero
// modTime sets both access and modification time.
func (h *TestHelper) CreateSourceFile(name string, content []byte, modTime time.Time) string {
	h.t.Helper()
	path := filepath.Join(h.sourceDir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create source file: %v", err)
	}
	if !modTime.IsZero() {
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			h.t.Fatalf("failed to set mod time: %v", err)
		}
	}
	return path
}

// CreateSourceImage creates a TIFF image whose DateTime tag is captureTime
func (h *TestHelper) CreateSourceImage(name, captureTime string) string {
	h.t.Helper()
	return h.CreateSourceFile(name, tiffWithDateTime(captureTime), time.Time{})
}

// CreateLibraryDir creates a subdirectory of the library
func (h *TestHelper) CreateLibraryDir(name string) string {
	h.t.Helper()
	path := filepath.Join(h.libraryDir, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		h.t.Fatalf("failed to create library dir: %v", err)
	}
	return path
}

// CreateLibraryFile creates a file inside a library subdirectory
func (h *TestHelper) CreateLibraryFile(dir, name string, content []byte) string {
	h.t.Helper()
	path := filepath.Join(h.CreateLibraryDir(dir), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create library file: %v", err)
	}
	return path
}

// Index builds the library date index
func (h *TestHelper) Index() *library.Index {
	h.t.Helper()
	idx, err := library.BuildIndex(context.Background(), h.backend, h.libraryDir)
	if err != nil {
		h.t.Fatalf("failed to index library: %v", err)
	}
	return idx
}

// Planner returns a planner over the default extraction chain
func (h *TestHelper) Planner(opts ...PlannerOption) *Planner {
	return NewPlanner(extract.NewDefault(h.backend), h.backend, opts...)
}

func mustExtractor(t *testing.T, h *TestHelper, names ...string) *extract.Extractor {
	t.Helper()
	extractor, err := extract.FromNames(names, h.backend)
	if err != nil {
		t.Fatalf("FromNames() error = %v", err)
	}
	return extractor
}

// Session returns a valid import session
func (h *TestHelper) Session(op models.Operation, dryRun bool) *models.ImportSession {
	return &models.ImportSession{
		ID:          "test-session",
		SourcePath:  h.sourceDir,
		LibraryPath: h.libraryDir,
		Operation:   op,
		DryRun:      dryRun,
		MaxWorkers:  4,
		BufferSize:  65536,
		CreatedAt:   time.Now(),
	}
}

// Import runs a full batch import of the source directory
func (h *TestHelper) Import(op models.Operation, dryRun bool) *models.ImportReport {
	h.t.Helper()

	session := h.Session(op, dryRun)
	planner := h.Planner(WithOperation(op), WithDryRun(dryRun))
	batch, err := NewBatchImporter(planner, h.backend, nil, nil, session, DefaultBatchConfig())
	if err != nil {
		h.t.Fatalf("NewBatchImporter() error = %v", err)
	}

	report, err := batch.Run(context.Background(), h.sourceDir, h.Index())
	if err != nil {
		h.t.Fatalf("Run() error = %v", err)
	}
	return report
}

// LibraryPath joins elements onto the library root
func (h *TestHelper) LibraryPath(elem ...string) string {
	return filepath.Join(append([]string{h.libraryDir}, elem...)...)
}

// SourcePath joins a name onto the source directory
func (h *TestHelper) SourcePath(name string) string {
	return filepath.Join(h.sourceDir, name)
}

// AssertFileContent fails unless path holds exactly content
func (h *TestHelper) AssertFileContent(path string, content []byte) {
	h.t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		h.t.Errorf("failed to read %s: %v", path, err)
		return
	}
	if !bytes.Equal(got, content) {
		h.t.Errorf("%s content = %q, want %q", path, got, content)
	}
}

// AssertExists fails unless path exists
func (h *TestHelper) AssertExists(path string) {
	h.t.Helper()
	if _, err := os.Stat(path); err != nil {
		h.t.Errorf("expected %s to exist: %v", path, err)
	}
}

// AssertNotExists fails if path exists
func (h *TestHelper) AssertNotExists(path string) {
	h.t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		h.t.Errorf("expected %s to not exist", path)
	}
}

// tiffWithDateTime builds a minimal little-endian TIFF with one DateTime tag
func tiffWithDateTime(value string) []byte {
	data := append([]byte(value), 0)
	buf := make([]byte, 26, 26+len(data))

	copy(buf, "II*\x00")
	binary.LittleEndian.PutUint32(buf[4:], 8)
	binary.LittleEndian.PutUint16(buf[8:], 1)
	binary.LittleEndian.PutUint16(buf[10:], 0x0132)
	binary.LittleEndian.PutUint16(buf[12:], 2)
	binary.LittleEndian.PutUint32(buf[14:], uint32(len(data)))
	binary.LittleEndian.PutUint32(buf[18:], 26)
	binary.LittleEndian.PutUint32(buf[22:], 0)

	return append(buf, data...)
}

// localNoon returns noon of the given day in the local timezone
func localNoon(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
}
