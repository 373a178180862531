// Package compare checks that a transferred file matches its source
package compare

import (
	"context"
	"fmt"

	"github.com/sdejongh/photonorris/pkg/storage"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Same indicates files are identical
	Same Result = "same"
	// Different indicates files differ
	Different Result = "different"
	// Missing indicates one of the files does not exist
	Missing Result = "missing"
)

// Verification methods accepted by New
const (
	MethodNone = "none"
	MethodSize = "size"
	MethodHash = "hash"
)

// Comparison holds the result of comparing two files
type Comparison struct {
	SourcePath string
	DestPath   string
	Result     Result
	Reason     string
}

// Comparator defines the interface for file comparison algorithms
type Comparator interface {
	// Compare compares two files on backend and returns the result
	Compare(ctx context.Context, backend storage.Backend, sourcePath, destPath string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}

// New returns the comparator for method, or nil for "none"
func New(method string, bufferSize int) (Comparator, error) {
	switch method {
	case MethodNone, "":
		return nil, nil
	case MethodSize:
		return NewSizeComparator(), nil
	case MethodHash:
		return NewHashComparator(bufferSize), nil
	default:
		return nil, fmt.Errorf("unknown verification method: %s (valid: none, size, hash)", method)
	}
}

// statBoth returns both files' metadata, or a Missing comparison when either
// file is absent
func statBoth(ctx context.Context, backend storage.Backend, sourcePath, destPath string) (src, dst *storage.FileInfo, missing *Comparison, err error) {
	for _, p := range []struct {
		path string
		role string
	}{{sourcePath, "source"}, {destPath, "destination"}} {
		exists, err := backend.FileExists(ctx, p.path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to check %s existence: %w", p.role, err)
		}
		if !exists {
			return nil, nil, &Comparison{
				SourcePath: sourcePath,
				DestPath:   destPath,
				Result:     Missing,
				Reason:     p.role + " file does not exist",
			}, nil
		}
	}

	src, err = backend.Stat(ctx, sourcePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to stat source file: %w", err)
	}
	dst, err = backend.Stat(ctx, destPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to stat destination file: %w", err)
	}
	return src, dst, nil, nil
}
