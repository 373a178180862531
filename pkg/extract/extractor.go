// Package extract derives the capture date of a media file from an ordered
// chain of strategies: embedded EXIF metadata, the file name, and finally the
// filesystem timestamps.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/sdejongh/photonorris/pkg/datestamp"
	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// Strategy names
const (
	StrategyExif      = "exif"
	StrategyFilename  = "filename"
	StrategyFileTimes = "filetimes"
)

// DefaultStrategies is the resolution order used when none is configured
var DefaultStrategies = []string{StrategyExif, StrategyFilename, StrategyFileTimes}

// Strategy derives a Datestamp from a file or reports why it could not
type Strategy interface {
	// Name identifies the strategy in reports and configuration
	Name() string

	// Extract returns the datestamp of the file at path
	Extract(ctx context.Context, path string) (datestamp.Datestamp, error)
}

// Resolution is a resolved datestamp and the strategy that produced it
type Resolution struct {
	Datestamp datestamp.Datestamp
	Strategy  string
}

// Extractor tries its strategies in order and returns the first success
type Extractor struct {
	strategies []Strategy
}

// New creates an extractor over an explicit strategy list
func New(strategies ...Strategy) *Extractor {
	return &Extractor{strategies: strategies}
}

// NewDefault creates the standard exif, filename, filetimes chain
func NewDefault(backend storage.Backend) *Extractor {
	e, _ := FromNames(DefaultStrategies, backend)
	return e
}

// FromNames builds an extractor from strategy names, keeping their order
func FromNames(names []string, backend storage.Backend) (*Extractor, error) {
	if len(names) == 0 {
		names = DefaultStrategies
	}

	strategies := make([]Strategy, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("strategy listed twice: %s", name)
		}
		seen[name] = true

		switch name {
		case StrategyExif:
			strategies = append(strategies, NewExifStrategy(NewExifReader()))
		case StrategyFilename:
			strategies = append(strategies, NewFilenameStrategy())
		case StrategyFileTimes:
			strategies = append(strategies, NewFileTimesStrategy(backend))
		default:
			return nil, fmt.Errorf("unknown strategy: %s (valid: exif, filename, filetimes)", name)
		}
	}

	return New(strategies...), nil
}

// Names returns the strategy names in resolution order
func (e *Extractor) Names() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// Resolve runs the strategy chain. A failing strategy only moves resolution
// on to the next one; ErrNoDatestampFound is returned once all have failed.
func (e *Extractor) Resolve(ctx context.Context, path string) (Resolution, error) {
	var errs []error

	for _, s := range e.strategies {
		if err := ctx.Err(); err != nil {
			return Resolution{}, err
		}

		ds, err := s.Extract(ctx, path)
		if err == nil {
			return Resolution{Datestamp: ds, Strategy: s.Name()}, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}

	return Resolution{}, fmt.Errorf("%s: %w: %w", path, models.ErrNoDatestampFound, errors.Join(errs...))
}
