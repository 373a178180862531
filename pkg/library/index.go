// Package library models a date-partitioned photo library: a root directory
// whose immediate subdirectories are named after the day their files were
// captured, optionally followed by a description ("2015-03-11 - vacation").
package library

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/sdejongh/photonorris/pkg/datestamp"
	"github.com/sdejongh/photonorris/pkg/storage"
)

// Collision records two library directories naming the same day
type Collision struct {
	Date    string `json:"date"`
	Kept    string `json:"kept"`
	Dropped string `json:"dropped"`
}

// Entry is one indexed date and its directory
type Entry struct {
	Date string `json:"date"`
	Dir  string `json:"dir"`
}

// Index maps canonical date strings to the library directory holding that
// day. It is a snapshot: directories created after BuildIndex are not seen.
type Index struct {
	root       string
	entries    map[string]string
	collisions []Collision
}

// BuildIndex scans the immediate subdirectories of root. Names without a
// date are ignored. When two directories parse to the same date the later
// one in listing order wins and the collision is recorded.
func BuildIndex(ctx context.Context, backend storage.Backend, root string) (*Index, error) {
	dirs, err := backend.ListDirs(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan library: %w", err)
	}

	idx := &Index{
		root:    root,
		entries: make(map[string]string, len(dirs)),
	}

	for _, dir := range dirs {
		ds, ok := datestamp.FromDirName(dir.Name)
		if !ok {
			continue
		}
		idx.add(ds.String(), dir.Path)
	}

	return idx, nil
}

// NewIndex builds an index from an explicit date to directory mapping
func NewIndex(root string, entries map[string]string) *Index {
	idx := &Index{root: root, entries: make(map[string]string, len(entries))}
	for date, dir := range entries {
		idx.entries[date] = dir
	}
	return idx
}

func (idx *Index) add(date, path string) {
	if prev, exists := idx.entries[date]; exists {
		idx.collisions = append(idx.collisions, Collision{Date: date, Kept: path, Dropped: prev})
	}
	idx.entries[date] = path
}

// Lookup returns the directory holding ds
func (idx *Index) Lookup(ds datestamp.Datestamp) (string, bool) {
	dir, ok := idx.entries[ds.String()]
	return dir, ok
}

// PathFor returns the directory files dated ds belong in: the indexed
// directory when there is one, otherwise root/YYYY-MM-DD
func (idx *Index) PathFor(ds datestamp.Datestamp) (dir string, existing bool) {
	if dir, ok := idx.Lookup(ds); ok {
		return dir, true
	}
	return filepath.Join(idx.root, ds.String()), false
}

// Len returns the number of indexed dates
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Dates returns the indexed canonical dates in ascending order
func (idx *Index) Dates() []string {
	dates := make([]string, 0, len(idx.entries))
	for date := range idx.entries {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Entries returns the indexed directories ordered by date
func (idx *Index) Entries() []Entry {
	dates := idx.Dates()
	entries := make([]Entry, len(dates))
	for i, date := range dates {
		entries[i] = Entry{Date: date, Dir: idx.entries[date]}
	}
	return entries
}

// Root returns the library root the index was built from
func (idx *Index) Root() string {
	return idx.root
}

// Collisions returns the duplicate dates found while scanning
func (idx *Index) Collisions() []Collision {
	return idx.collisions
}
