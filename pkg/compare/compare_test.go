package compare

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/photonorris/pkg/storage"
)

// TestHelper provides utilities for comparator tests
type TestHelper struct {
	t       *testing.T
	dir     string
	backend *storage.Local
}

// NewTestHelper creates a new test helper with a temporary directory
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	return &TestHelper{t: t, dir: t.TempDir(), backend: storage.NewLocal()}
}

// CreateFile writes content to name and returns its path
func (h *TestHelper) CreateFile(name string, content []byte) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
	return path
}

func TestNew(t *testing.T) {
	tests := []struct {
		method   string
		expected string
		wantErr  bool
	}{
		{"none", "", false},
		{"", "", false},
		{"size", "size", false},
		{"hash", "hash", false},
		{"md5", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			c, err := New(tt.method, 4096)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.method, err, tt.wantErr)
			}
			if tt.expected == "" {
				if c != nil {
					t.Errorf("New(%q) = %s, want nil", tt.method, c.Name())
				}
				return
			}
			if c == nil || c.Name() != tt.expected {
				t.Errorf("New(%q) returned wrong comparator", tt.method)
			}
		})
	}
}

func TestComparators(t *testing.T) {
	h := NewTestHelper(t)
	ctx := context.Background()

	original := h.CreateFile("a.jpg", []byte("photo content"))
	identical := h.CreateFile("b.jpg", []byte("photo content"))
	sameSize := h.CreateFile("c.jpg", []byte("photo CONTENT"))
	shorter := h.CreateFile("d.jpg", []byte("photo"))
	absent := filepath.Join(h.dir, "absent.jpg")

	tests := []struct {
		name       string
		comparator Comparator
		dest       string
		expected   Result
	}{
		{"SizeSame", NewSizeComparator(), identical, Same},
		{"SizeBlindToContent", NewSizeComparator(), sameSize, Same},
		{"SizeDifferent", NewSizeComparator(), shorter, Different},
		{"SizeMissing", NewSizeComparator(), absent, Missing},
		{"HashSame", NewHashComparator(4096), identical, Same},
		{"HashContentDiffers", NewHashComparator(4096), sameSize, Different},
		{"HashSizeDiffers", NewHashComparator(4096), shorter, Different},
		{"HashMissing", NewHashComparator(4096), absent, Missing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, err := tt.comparator.Compare(ctx, h.backend, original, tt.dest)
			if err != nil {
				t.Fatalf("Compare() error = %v", err)
			}
			if cmp.Result != tt.expected {
				t.Errorf("Compare() = %s (%s), want %s", cmp.Result, cmp.Reason, tt.expected)
			}
		})
	}
}

func TestHashPartialRejection(t *testing.T) {
	h := NewTestHelper(t)
	ctx := context.Background()

	large := bytes.Repeat([]byte{0xAB}, partialHashThreshold+10)
	changedHead := append([]byte(nil), large...)
	changedHead[0] = 0xCD
	changedTail := append([]byte(nil), large...)
	changedTail[len(changedTail)-1] = 0xCD

	src := h.CreateFile("src.raw", large)
	head := h.CreateFile("head.raw", changedHead)
	tail := h.CreateFile("tail.raw", changedTail)
	same := h.CreateFile("same.raw", large)

	c := NewHashComparator(65536)

	cmp, err := c.Compare(ctx, h.backend, src, head)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if cmp.Result != Different || cmp.Reason != "file partial hashes differ" {
		t.Errorf("head change = %s (%s), want partial hash rejection", cmp.Result, cmp.Reason)
	}

	cmp, err = c.Compare(ctx, h.backend, src, tail)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if cmp.Result != Different || cmp.Reason != "file hashes differ" {
		t.Errorf("tail change = %s (%s), want full hash rejection", cmp.Result, cmp.Reason)
	}

	cmp, err = c.Compare(ctx, h.backend, src, same)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if cmp.Result != Same {
		t.Errorf("identical large files = %s, want same", cmp.Result)
	}

	c.SetPartialHashEnabled(false)
	cmp, err = c.Compare(ctx, h.backend, src, head)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if cmp.Reason != "file hashes differ" {
		t.Errorf("with partial hashing disabled reason = %q", cmp.Reason)
	}
}

func TestHashCancelled(t *testing.T) {
	h := NewTestHelper(t)
	a := h.CreateFile("a", []byte("same"))
	b := h.CreateFile("b", []byte("same"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewHashComparator(4096).Compare(ctx, h.backend, a, b); err == nil {
		t.Error("Compare() should fail on a cancelled context")
	}
}
