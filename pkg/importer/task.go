// Package importer plans and performs the relocation of media files into a
// date-partitioned library.
package importer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sdejongh/photonorris/pkg/datestamp"
	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// DestinationKind tells how a Destination path is interpreted
type DestinationKind int

const (
	// KindFile means the path is the destination file itself
	KindFile DestinationKind = iota
	// KindDirectory means the file keeps its name inside the path
	KindDirectory
)

// Destination is where a task places its file: either an exact file path or
// a directory receiving the source's base name
type Destination struct {
	kind DestinationKind
	path string
}

// DestinationFile targets an exact file path
func DestinationFile(path string) Destination {
	return Destination{kind: KindFile, path: path}
}

// DestinationDirectory targets a directory; the source's base name is kept
func DestinationDirectory(path string) Destination {
	return Destination{kind: KindDirectory, path: path}
}

// Kind returns how the path is interpreted
func (d Destination) Kind() DestinationKind { return d.kind }

// Path returns the raw destination path
func (d Destination) Path() string { return d.path }

// Dir returns the directory the destination file ends up in
func (d Destination) Dir() string {
	if d.kind == KindDirectory {
		return d.path
	}
	return filepath.Dir(d.path)
}

// Resolve returns the concrete destination file for sourcePath
func (d Destination) Resolve(sourcePath string) string {
	if d.kind == KindDirectory {
		return filepath.Join(d.path, filepath.Base(sourcePath))
	}
	return d.path
}

func (d Destination) String() string {
	if d.kind == KindDirectory {
		return "dir:" + d.path
	}
	return "file:" + d.path
}

// ImportTask is one pending relocation. Executing it never modifies the task.
type ImportTask struct {
	SourcePath  string
	Destination Destination
	Operation   models.Operation

	// Datestamp and Strategy record how the destination was chosen
	Datestamp datestamp.Datestamp
	Strategy  string

	// CreatedDir is set when planning had to create the destination directory
	CreatedDir bool
}

// NewTask creates a task for source
func NewTask(source string, dest Destination, op models.Operation) *ImportTask {
	return &ImportTask{
		SourcePath:  source,
		Destination: dest,
		Operation:   op,
	}
}

// Target returns the destination file path
func (t *ImportTask) Target() string {
	return t.Destination.Resolve(t.SourcePath)
}

// Execute copies or moves the source to its destination, overwriting any
// existing file, and returns the destination path
func (t *ImportTask) Execute(ctx context.Context, backend storage.Backend) (string, error) {
	exists, err := backend.FileExists(ctx, t.SourcePath)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%s: %w", t.SourcePath, models.ErrSourceNotFound)
	}

	target := t.Target()

	switch t.Operation {
	case models.OperationMove:
		_, err = backend.Move(ctx, t.SourcePath, target)
	case models.OperationCopy, "":
		_, err = backend.Copy(ctx, t.SourcePath, target)
	default:
		return "", fmt.Errorf("unsupported operation: %s", t.Operation)
	}
	if err != nil {
		return "", fmt.Errorf("failed to %s %s: %w", t.operationName(), t.SourcePath, err)
	}

	return target, nil
}

func (t *ImportTask) operationName() string {
	if t.Operation == "" {
		return string(models.OperationCopy)
	}
	return string(t.Operation)
}
