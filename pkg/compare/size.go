package compare

import (
	"context"

	"github.com/sdejongh/photonorris/pkg/storage"
)

// SizeComparator compares files by size only
type SizeComparator struct{}

// NewSizeComparator creates a new size comparator
func NewSizeComparator() *SizeComparator {
	return &SizeComparator{}
}

// Compare compares two files by size
func (c *SizeComparator) Compare(ctx context.Context, backend storage.Backend, sourcePath, destPath string) (*Comparison, error) {
	sourceInfo, destInfo, missing, err := statBoth(ctx, backend, sourcePath, destPath)
	if err != nil || missing != nil {
		return missing, err
	}

	if sourceInfo.Size != destInfo.Size {
		return &Comparison{
			SourcePath: sourcePath,
			DestPath:   destPath,
			Result:     Different,
			Reason:     "file sizes differ",
		}, nil
	}

	return &Comparison{
		SourcePath: sourcePath,
		DestPath:   destPath,
		Result:     Same,
		Reason:     "sizes match",
	}, nil
}

// Name returns the comparator name
func (c *SizeComparator) Name() string {
	return MethodSize
}
