package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/photonorris/pkg/models"
)

func TestDestination(t *testing.T) {
	tests := []struct {
		name     string
		dest     Destination
		source   string
		expected string
		dir      string
	}{
		{"Directory", DestinationDirectory("/lib/2015-03-11"), "/in/a.jpg", "/lib/2015-03-11/a.jpg", "/lib/2015-03-11"},
		{"File", DestinationFile("/lib/2015-03-11/renamed.jpg"), "/in/a.jpg", "/lib/2015-03-11/renamed.jpg", "/lib/2015-03-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dest.Resolve(tt.source); got != filepath.FromSlash(tt.expected) {
				t.Errorf("Resolve() = %s, want %s", got, tt.expected)
			}
			if got := tt.dest.Dir(); got != filepath.FromSlash(tt.dir) {
				t.Errorf("Dir() = %s, want %s", got, tt.dir)
			}
		})
	}

	if DestinationDirectory("/x").Kind() != KindDirectory || DestinationFile("/x").Kind() != KindFile {
		t.Error("Kind() does not match the constructor")
	}
}

func TestTaskExecuteCopy(t *testing.T) {
	h := NewTestHelper(t)
	src := h.CreateSourceFile("a.jpg", []byte("photo"), localNoon(2016, 1, 2))
	task := NewTask(src, DestinationDirectory(h.LibraryPath("2016-01-02")), models.OperationCopy)

	dest, err := task.Execute(context.Background(), h.backend)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if dest != h.LibraryPath("2016-01-02", "a.jpg") {
		t.Errorf("Execute() = %s, want %s", dest, h.LibraryPath("2016-01-02", "a.jpg"))
	}

	h.AssertFileContent(dest, []byte("photo"))
	h.AssertFileContent(src, []byte("photo"))

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(localNoon(2016, 1, 2)) {
		t.Errorf("copy mod time = %v, want %v", info.ModTime(), localNoon(2016, 1, 2))
	}

	if task.SourcePath != src || task.Destination.Path() != h.LibraryPath("2016-01-02") {
		t.Error("Execute() must not modify the task")
	}
}

func TestTaskExecuteMove(t *testing.T) {
	h := NewTestHelper(t)
	src := h.CreateSourceFile("b.jpg", []byte("moved"), localNoon(2016, 1, 2))
	target := h.LibraryPath("2016-01-02", "renamed.jpg")

	dest, err := NewTask(src, DestinationFile(target), models.OperationMove).Execute(context.Background(), h.backend)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if dest != target {
		t.Errorf("Execute() = %s, want %s", dest, target)
	}

	h.AssertFileContent(target, []byte("moved"))
	h.AssertNotExists(src)
}

func TestTaskExecuteOverwrites(t *testing.T) {
	h := NewTestHelper(t)
	src := h.CreateSourceFile("c.jpg", []byte("new"), localNoon(2016, 1, 2))
	existing := h.CreateLibraryFile("2016-01-02", "c.jpg", []byte("old content that is longer"))

	if _, err := NewTask(src, DestinationDirectory(filepath.Dir(existing)), models.OperationCopy).Execute(context.Background(), h.backend); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	h.AssertFileContent(existing, []byte("new"))
}

func TestTaskExecuteMissingSource(t *testing.T) {
	h := NewTestHelper(t)
	destDir := h.LibraryPath("2016-01-02")

	for _, op := range []models.Operation{models.OperationCopy, models.OperationMove} {
		t.Run(string(op), func(t *testing.T) {
			task := NewTask(h.SourcePath("ghost.jpg"), DestinationDirectory(destDir), op)

			_, err := task.Execute(context.Background(), h.backend)
			if !errors.Is(err, models.ErrSourceNotFound) {
				t.Fatalf("Execute() error = %v, want ErrSourceNotFound", err)
			}
			h.AssertNotExists(filepath.Join(destDir, "ghost.jpg"))
		})
	}
}
