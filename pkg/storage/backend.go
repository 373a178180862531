package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file or directory
type FileInfo struct {
	Path        string
	Name        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	Permissions uint32
	Times       Times
}

// Times holds every timestamp the platform reports for a file.
// Change and Birth are zero when the platform does not provide them.
type Times struct {
	Access time.Time
	Modify time.Time
	Change time.Time
	Birth  time.Time
}

// Backend defines the filesystem operations the importer depends on.
// All paths are regular OS paths; listing is never recursive.
type Backend interface {
	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// FileExists reports whether path exists and is not a directory
	FileExists(ctx context.Context, path string) (bool, error)

	// DirExists reports whether path exists and is a directory
	DirExists(ctx context.Context, path string) (bool, error)

	// ListDirs returns the immediate subdirectories of path, sorted by name
	ListDirs(ctx context.Context, path string) ([]FileInfo, error)

	// ListFiles returns the immediate files of path, sorted by name
	ListFiles(ctx context.Context, path string) ([]FileInfo, error)

	// MkdirAll creates a directory and all necessary parents.
	// Creating a directory that already exists is not an error.
	MkdirAll(ctx context.Context, path string) error

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or overwrites a file with the given content.
	// The destination never holds partially written data.
	// If metadata is provided, timestamps and permissions are preserved.
	Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error

	// Copy copies src to dst, overwriting dst, and returns the bytes written
	Copy(ctx context.Context, src, dst string) (int64, error)

	// Move relocates src to dst, overwriting dst, and returns the bytes moved
	Move(ctx context.Context, src, dst string) (int64, error)

	// Remove deletes a file
	Remove(ctx context.Context, path string) error

	// ReadFileText returns the content of a small text file
	ReadFileText(ctx context.Context, path string) (string, error)

	// WriteFileText writes a small text file, creating parents as needed
	WriteFileText(ctx context.Context, path, text string) error

	// Close releases any resources held by the backend
	Close() error
}
