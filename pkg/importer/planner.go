package importer

import (
	"context"
	"fmt"

	"github.com/sdejongh/photonorris/pkg/extract"
	"github.com/sdejongh/photonorris/pkg/library"
	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// Planner decides where a file belongs in the library
type Planner struct {
	extractor *extract.Extractor
	backend   storage.Backend
	operation models.Operation
	dryRun    bool
}

// PlannerOption configures a Planner
type PlannerOption func(*Planner)

// WithOperation sets the operation of planned tasks (copy by default)
func WithOperation(op models.Operation) PlannerOption {
	return func(p *Planner) {
		p.operation = op
	}
}

// WithDryRun stops the planner from creating missing date directories
func WithDryRun(dryRun bool) PlannerOption {
	return func(p *Planner) {
		p.dryRun = dryRun
	}
}

// NewPlanner creates a planner
func NewPlanner(extractor *extract.Extractor, backend storage.Backend, opts ...PlannerOption) *Planner {
	p := &Planner{
		extractor: extractor,
		backend:   backend,
		operation: models.OperationCopy,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Operation returns the operation planned tasks carry
func (p *Planner) Operation() models.Operation {
	return p.operation
}

// Plan resolves the date of sourcePath and picks its destination: the
// indexed directory for that date when there is one, otherwise a plain
// root/YYYY-MM-DD directory, created here unless planning is a dry run.
// File contents are never compared; an existing file at the destination is
// overwritten when the task executes.
func (p *Planner) Plan(ctx context.Context, sourcePath string, index *library.Index) (*ImportTask, error) {
	res, err := p.extractor.Resolve(ctx, sourcePath)
	if err != nil {
		return nil, err
	}

	dir, existing := index.PathFor(res.Datestamp)

	created := false
	if !existing {
		// The index is a snapshot, so the directory may already be there
		found, err := p.backend.DirExists(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", dir, err)
		}
		created = !found

		if created && !p.dryRun {
			if err := p.backend.MkdirAll(ctx, dir); err != nil {
				return nil, err
			}
		}
	}

	task := NewTask(sourcePath, DestinationDirectory(dir), p.operation)
	task.Datestamp = res.Datestamp
	task.Strategy = res.Strategy
	task.CreatedDir = created

	return task, nil
}
