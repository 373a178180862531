package extract

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/sdejongh/photonorris/pkg/datestamp"
	"github.com/sdejongh/photonorris/pkg/models"
)

// captureTagPattern matches the date portion of an EXIF date-time value
var captureTagPattern = regexp.MustCompile(`^\s*(\d{4}):(\d{2}):(\d{2})`)

// captureFields are consulted in order
var captureFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// CaptureTimeReader returns the raw capture-time tag of a media file,
// formatted "YYYY:MM:DD HH:MM:SS"
type CaptureTimeReader interface {
	ReadCaptureTime(path string) (string, error)
}

// ExifReader reads capture times with goexif. Files whose content is not an
// image are rejected before decoding.
type ExifReader struct{}

// NewExifReader creates an EXIF capture time reader
func NewExifReader() *ExifReader {
	return &ExifReader{}
}

// ReadCaptureTime implements CaptureTimeReader
func (r *ExifReader) ReadCaptureTime(path string) (tag string, err error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%s has no exif metadata: %w", mtype.String(), models.ErrMetadataUnreadable)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// goexif can panic on malformed maker notes
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("exif decoder panic: %v: %w", rec, models.ErrMetadataUnreadable)
		}
	}()

	x, err := exif.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode exif: %w: %w", models.ErrMetadataUnreadable, err)
	}

	for _, field := range captureFields {
		t, err := x.Get(field)
		if err != nil {
			continue
		}
		value, err := t.StringVal()
		if err != nil || strings.TrimSpace(value) == "" {
			continue
		}
		return value, nil
	}

	return "", fmt.Errorf("no capture date tag: %w", models.ErrMetadataUnreadable)
}

// ExifStrategy resolves the date from embedded capture-time metadata
type ExifStrategy struct {
	reader CaptureTimeReader
}

// NewExifStrategy creates the metadata strategy over reader
func NewExifStrategy(reader CaptureTimeReader) *ExifStrategy {
	return &ExifStrategy{reader: reader}
}

// Name implements Strategy
func (s *ExifStrategy) Name() string { return StrategyExif }

// Extract implements Strategy
func (s *ExifStrategy) Extract(ctx context.Context, path string) (datestamp.Datestamp, error) {
	tag, err := s.reader.ReadCaptureTime(path)
	if err != nil {
		return datestamp.Datestamp{}, fmt.Errorf("%w: %w", models.ErrMetadataUnreadable, err)
	}
	return ParseCaptureTime(tag)
}

// ParseCaptureTime parses the date portion of an EXIF date-time value.
// Cameras write "0000:00:00 00:00:00" when the clock was never set; such
// values are rejected.
func ParseCaptureTime(tag string) (datestamp.Datestamp, error) {
	m := captureTagPattern.FindStringSubmatch(tag)
	if m == nil {
		return datestamp.Datestamp{}, fmt.Errorf("unknown capture date format %q: %w", tag, models.ErrMetadataUnreadable)
	}

	ds, ok := datestamp.FromParts(m[1], m[2], m[3])
	if !ok {
		return datestamp.Datestamp{}, fmt.Errorf("invalid capture date %q: %w", tag, models.ErrMetadataUnreadable)
	}
	return ds, nil
}
