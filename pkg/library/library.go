package library

import (
	"context"
	"fmt"

	"github.com/sdejongh/photonorris/pkg/logging"
	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// Library is an opened photo library
type Library struct {
	root    string
	backend storage.Backend
	index   *Index
}

// Options control how a library is opened
type Options struct {
	// Create makes a missing root instead of failing
	Create bool
	// DryRun reports a missing root as empty instead of creating it
	DryRun bool
	Logger logging.Logger
}

// Open validates the library root and takes the date index snapshot used
// for the rest of the session
func Open(ctx context.Context, backend storage.Backend, root string, opts Options) (*Library, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	exists, err := backend.DirExists(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to check library root: %w", err)
	}

	if !exists {
		if !opts.Create {
			return nil, fmt.Errorf("%s: %w", root, models.ErrLibraryNotFound)
		}
		if opts.DryRun {
			logger.Info(ctx, "Library root would be created", logging.Fields{"root": root})
			return &Library{root: root, backend: backend, index: NewIndex(root, nil)}, nil
		}
		if err := backend.MkdirAll(ctx, root); err != nil {
			return nil, err
		}
		logger.Info(ctx, "Library root created", logging.Fields{"root": root})
	}

	index, err := BuildIndex(ctx, backend, root)
	if err != nil {
		return nil, err
	}

	for _, c := range index.Collisions() {
		logger.Warn(ctx, "Duplicate date directory", logging.Fields{
			"date":    c.Date,
			"kept":    c.Kept,
			"dropped": c.Dropped,
		})
	}

	logger.Debug(ctx, "Library indexed", logging.Fields{
		"root":  root,
		"dates": index.Len(),
	})

	return &Library{root: root, backend: backend, index: index}, nil
}

// Root returns the library root directory
func (l *Library) Root() string {
	return l.root
}

// Index returns the date index snapshot taken when the library was opened
func (l *Library) Index() *Index {
	return l.index
}

// Backend returns the storage backend the library lives on
func (l *Library) Backend() storage.Backend {
	return l.backend
}
