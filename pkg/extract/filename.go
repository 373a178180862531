package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sdejongh/photonorris/pkg/datestamp"
)

// FilenameStrategy resolves the date encoded in a file's base name, such as
// "2015-03-11 09.05.32.jpg" or "IMG_2016_01_02-party.png"
type FilenameStrategy struct{}

// NewFilenameStrategy creates the file name strategy
func NewFilenameStrategy() *FilenameStrategy {
	return &FilenameStrategy{}
}

// Name implements Strategy
func (s *FilenameStrategy) Name() string { return StrategyFilename }

// Extract implements Strategy
func (s *FilenameStrategy) Extract(ctx context.Context, path string) (datestamp.Datestamp, error) {
	ds, ok := FromFilename(filepath.Base(path))
	if !ok {
		return datestamp.Datestamp{}, fmt.Errorf("file name %q contains no date", filepath.Base(path))
	}
	return ds, nil
}

// FromFilename returns the first date in the name's stem (extension removed)
// that is followed by a non-digit or by the end of the stem
func FromFilename(name string) (datestamp.Datestamp, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	for _, m := range datestamp.FindAll(stem) {
		if m.End == len(stem) || !isDigit(stem[m.End]) {
			return m.Datestamp, true
		}
	}
	return datestamp.Datestamp{}, false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
