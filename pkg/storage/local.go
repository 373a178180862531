package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/ratelimit"
)

const defaultBufferSize = 65536

// Local is a filesystem-based storage backend
type Local struct {
	bufferSize int
	limiter    *ratelimit.Limiter
}

// Option configures a Local backend
type Option func(*Local)

// WithBufferSize sets the copy buffer size
func WithBufferSize(size int) Option {
	return func(l *Local) {
		if size >= 1024 {
			l.bufferSize = size
		}
	}
}

// WithBandwidthLimit caps copy throughput in bytes per second (0 = unlimited).
// The limit is shared by every concurrent copy of the backend.
func WithBandwidthLimit(bytesPerSecond int64) Option {
	return func(l *Local) {
		l.limiter = ratelimit.NewLimiter(bytesPerSecond)
	}
}

// NewLocal creates a new local filesystem backend
func NewLocal(opts ...Option) *Local {
	l := &Local{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, wrapPathError("failed to stat", path, err)
	}
	return newFileInfo(path, info), nil
}

// FileExists reports whether path is an existing non-directory
func (l *Local) FileExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w: %w", models.ErrIO, err)
}

// DirExists reports whether path is an existing directory
func (l *Local) DirExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w: %w", models.ErrIO, err)
}

// ListDirs returns the immediate subdirectories of path
func (l *Local) ListDirs(ctx context.Context, path string) ([]FileInfo, error) {
	return l.list(ctx, path, true)
}

// ListFiles returns the immediate files of path
func (l *Local) ListFiles(ctx context.Context, path string) ([]FileInfo, error) {
	return l.list(ctx, path, false)
}

func (l *Local) list(ctx context.Context, path string, dirs bool) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, wrapPathError("failed to list", path, err)
	}

	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fullPath := filepath.Join(path, entry.Name())

		// Symlinks are classified by their target
		var info fs.FileInfo
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err = os.Stat(fullPath)
		} else {
			info, err = entry.Info()
		}
		if err != nil {
			// Entry vanished or dangling link
			continue
		}

		if info.IsDir() != dirs {
			continue
		}
		if !dirs && !info.Mode().IsRegular() {
			continue
		}

		result = append(result, *newFileInfo(fullPath, info))
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// MkdirAll creates a directory and all necessary parents
func (l *Local) MkdirAll(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w: %w", path, models.ErrDirectoryCreation, err)
	}
	return nil
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, wrapPathError("failed to open", path, err)
	}
	return file, nil
}

// Write writes reader to a temporary file next to path and renames it into
// place once every byte is on disk
func (l *Local) Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error {
	dir := filepath.Dir(path)
	if err := l.MkdirAll(ctx, dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w: %w", models.ErrIO, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	buf := make([]byte, l.bufferSize)
	written, err := io.CopyBuffer(tmp, ratelimit.NewReader(ctx, reader, l.limiter), buf)
	if err != nil {
		return fmt.Errorf("failed to write file: %w: %w", models.ErrIO, err)
	}
	if size >= 0 && written != size {
		return fmt.Errorf("incomplete write: expected %d bytes, wrote %d: %w", size, written, models.ErrIO)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to flush file: %w: %w", models.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w: %w", models.ErrIO, err)
	}

	// Preserve metadata if provided
	if metadata != nil {
		if metadata.Permissions != 0 {
			if err := os.Chmod(tmpPath, os.FileMode(metadata.Permissions)); err != nil {
				return fmt.Errorf("failed to set permissions: %w: %w", models.ErrIO, err)
			}
		}
		if !metadata.ModTime.IsZero() {
			atime := metadata.Times.Access
			if atime.IsZero() {
				atime = metadata.ModTime
			}
			if err := os.Chtimes(tmpPath, atime, metadata.ModTime); err != nil {
				return fmt.Errorf("failed to set modification time: %w: %w", models.ErrIO, err)
			}
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to finalize %s: %w: %w", path, models.ErrIO, err)
	}
	committed = true

	return nil
}

// Copy copies src to dst preserving timestamps and permissions
func (l *Local) Copy(ctx context.Context, src, dst string) (int64, error) {
	srcInfo, err := l.Stat(ctx, src)
	if err != nil {
		return 0, err
	}
	if srcInfo.IsDir {
		return 0, fmt.Errorf("cannot copy directory %s: %w", src, models.ErrIO)
	}

	reader, err := l.Open(ctx, src)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	if err := l.Write(ctx, dst, reader, srcInfo.Size, srcInfo); err != nil {
		return 0, err
	}
	return srcInfo.Size, nil
}

// Move renames src to dst. When the rename is impossible (typically across
// filesystems) the file is copied and the source removed.
func (l *Local) Move(ctx context.Context, src, dst string) (int64, error) {
	srcInfo, err := l.Stat(ctx, src)
	if err != nil {
		return 0, err
	}
	if srcInfo.IsDir {
		return 0, fmt.Errorf("cannot move directory %s: %w", src, models.ErrIO)
	}

	if err := l.MkdirAll(ctx, filepath.Dir(dst)); err != nil {
		return 0, err
	}

	// A limited backend always streams so the cap applies to moves too
	if l.limiter == nil {
		if err := os.Rename(src, dst); err == nil {
			return srcInfo.Size, nil
		}
	}

	written, err := l.Copy(ctx, src, dst)
	if err != nil {
		return 0, err
	}
	if err := l.Remove(ctx, src); err != nil {
		return written, err
	}
	return written, nil
}

// Remove deletes a file. Removing a missing file is not an error.
func (l *Local) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w: %w", path, models.ErrIO, err)
	}
	return nil
}

// ReadFileText returns the content of path as a string
func (l *Local) ReadFileText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", wrapPathError("failed to read", path, err)
	}
	return string(data), nil
}

// WriteFileText writes text to path, creating parent directories
func (l *Local) WriteFileText(ctx context.Context, path, text string) error {
	if err := l.MkdirAll(ctx, filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w: %w", path, models.ErrIO, err)
	}
	return nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func newFileInfo(path string, info fs.FileInfo) *FileInfo {
	return &FileInfo{
		Path:        path,
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		Permissions: uint32(info.Mode().Perm()),
		Times:       fileTimes(path, info),
	}
}

// isNotExist also treats a path through a regular file as missing
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// wrapPathError maps a missing path to ErrSourceNotFound and anything else to ErrIO
func wrapPathError(action, path string, err error) error {
	if isNotExist(err) {
		return fmt.Errorf("%s %s: %w: %w", action, path, models.ErrSourceNotFound, err)
	}
	return fmt.Errorf("%s %s: %w: %w", action, path, models.ErrIO, err)
}
