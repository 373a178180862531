package extract

import (
	"context"
	"time"

	"github.com/sdejongh/photonorris/pkg/datestamp"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// Statter is the part of the storage backend the timestamp strategy needs
type Statter interface {
	Stat(ctx context.Context, path string) (*storage.FileInfo, error)
}

// FileTimesStrategy resolves the date from the oldest filesystem timestamp.
// It only fails when the file cannot be stat'ed.
type FileTimesStrategy struct {
	statter Statter
}

// NewFileTimesStrategy creates the timestamp strategy
func NewFileTimesStrategy(statter Statter) *FileTimesStrategy {
	return &FileTimesStrategy{statter: statter}
}

// Name implements Strategy
func (s *FileTimesStrategy) Name() string { return StrategyFileTimes }

// Extract implements Strategy
func (s *FileTimesStrategy) Extract(ctx context.Context, path string) (datestamp.Datestamp, error) {
	info, err := s.statter.Stat(ctx, path)
	if err != nil {
		return datestamp.Datestamp{}, err
	}

	return datestamp.FromTime(Oldest(info.Times).Local()), nil
}

// Oldest returns the earliest known timestamp. Birth time is skipped when the
// filesystem reports it as unknown (zero or the Unix epoch).
func Oldest(t storage.Times) time.Time {
	candidates := []time.Time{t.Access, t.Modify, t.Change}
	if !t.Birth.IsZero() && t.Birth.Unix() != 0 {
		candidates = append(candidates, t.Birth)
	}

	var oldest time.Time
	for _, c := range candidates {
		if c.IsZero() {
			continue
		}
		if oldest.IsZero() || c.Before(oldest) {
			oldest = c
		}
	}
	return oldest
}
