package extract

import (
	"context"
	"testing"
)

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		found    bool
	}{
		{"2015-03-11 09.05.32.jpg", "2015-03-11", true},
		{"2017-03-05 12.41.30.jpg", "2017-03-05", true},
		{"IMG_2016_01_02-party.png", "2016-01-02", true},
		{"2015.12_30.jpg", "2015-12-30", true},
		{"2016-01-02.jpg", "2016-01-02", true},
		{"scan-2016-01-023.jpg", "", false},
		{"2016-01-023 then 2017-02-03.jpg", "2017-02-03", true},
		{"photo.2016-01-02", "", false},
		{"DSC_0042.JPG", "", false},
		{"2016-13-02.jpg", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, ok := FromFilename(tt.name)
			if ok != tt.found {
				t.Fatalf("FromFilename(%q) found = %v, want %v", tt.name, ok, tt.found)
			}
			if ok && ds.String() != tt.expected {
				t.Errorf("FromFilename(%q) = %s, want %s", tt.name, ds, tt.expected)
			}
		})
	}
}

func TestFilenameStrategyUsesBaseName(t *testing.T) {
	s := NewFilenameStrategy()

	if _, err := s.Extract(context.Background(), "/photos/2016-01-02/DSC_0042.JPG"); err == nil {
		t.Error("Extract() should ignore dates in parent directories")
	}

	ds, err := s.Extract(context.Background(), "/photos/misc/2015-03-11 09.05.32.jpg")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if ds.String() != "2015-03-11" {
		t.Errorf("Extract() = %s, want 2015-03-11", ds)
	}
}
