package compare

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/photonorris/pkg/storage"
)

// Partial hashing configuration
const (
	// Minimum file size to enable partial hashing (1MB)
	partialHashThreshold = 1 * 1024 * 1024
	// Size of partial hash to compute (256KB)
	partialHashSize = 256 * 1024
)

// HashComparator compares files using SHA-256 hash
type HashComparator struct {
	bufferPool        *sync.Pool
	enablePartialHash bool
}

// NewHashComparator creates a new hash-based comparator
func NewHashComparator(bufferSize int) *HashComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &HashComparator{
		enablePartialHash: true,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetPartialHashEnabled enables or disables the leading-bytes hash that
// rejects large files before hashing them in full
func (c *HashComparator) SetPartialHashEnabled(enabled bool) {
	c.enablePartialHash = enabled
}

// Compare compares two files using SHA-256 hash
func (c *HashComparator) Compare(ctx context.Context, backend storage.Backend, sourcePath, destPath string) (*Comparison, error) {
	sourceInfo, destInfo, missing, err := statBoth(ctx, backend, sourcePath, destPath)
	if err != nil || missing != nil {
		return missing, err
	}

	different := func(reason string) *Comparison {
		return &Comparison{SourcePath: sourcePath, DestPath: destPath, Result: Different, Reason: reason}
	}

	// If sizes differ, files are different
	if sourceInfo.Size != destInfo.Size {
		return different("file sizes differ"), nil
	}

	// Large files are rejected early on their first bytes
	if c.enablePartialHash && sourceInfo.Size >= partialHashThreshold {
		sourceHash, destHash, err := c.hashPair(ctx, backend, sourcePath, destPath, partialHashSize)
		// A failed partial hash falls through to the full hash
		if err == nil && sourceHash != destHash {
			return different("file partial hashes differ"), nil
		}
	}

	sourceHash, destHash, err := c.hashPair(ctx, backend, sourcePath, destPath, -1)
	if err != nil {
		return nil, err
	}
	if sourceHash != destHash {
		return different("file hashes differ"), nil
	}

	return &Comparison{
		SourcePath: sourcePath,
		DestPath:   destPath,
		Result:     Same,
		Reason:     "file hashes match",
	}, nil
}

// hashPair hashes both files in parallel. limit < 0 hashes whole files.
func (c *HashComparator) hashPair(ctx context.Context, backend storage.Backend, sourcePath, destPath string, limit int64) (string, string, error) {
	var sourceHash, destHash string
	var sourceErr, destErr error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		sourceHash, sourceErr = c.computeHash(ctx, backend, sourcePath, limit)
	}()
	go func() {
		defer wg.Done()
		destHash, destErr = c.computeHash(ctx, backend, destPath, limit)
	}()
	wg.Wait()

	if sourceErr != nil {
		return "", "", fmt.Errorf("failed to compute source hash: %w", sourceErr)
	}
	if destErr != nil {
		return "", "", fmt.Errorf("failed to compute destination hash: %w", destErr)
	}
	return sourceHash, destHash, nil
}

// computeHash computes the SHA-256 hash of a file, or of its first limit
// bytes when limit >= 0
func (c *HashComparator) computeHash(ctx context.Context, backend storage.Backend, path string, limit int64) (string, error) {
	reader, err := backend.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	var src io.Reader = reader
	if limit >= 0 {
		src = io.LimitReader(reader, limit)
	}

	hasher := sha256.New()

	// Get buffer from pool
	bufPtr := c.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer c.bufferPool.Put(bufPtr)

	for {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := src.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return MethodHash
}
