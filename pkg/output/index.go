package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sdejongh/photonorris/pkg/library"
)

// JSONIndexData is the JSON form of a library date index
type JSONIndexData struct {
	Root       string              `json:"root"`
	Entries    []library.Entry     `json:"entries"`
	Collisions []library.Collision `json:"collisions,omitempty"`
}

// WriteIndex prints the dates of a library index as text or JSON
func WriteIndex(w io.Writer, format string, idx *library.Index) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(JSONIndexData{
			Root:       idx.Root(),
			Entries:    idx.Entries(),
			Collisions: idx.Collisions(),
		})
	}

	fmt.Fprintf(w, "Library: %s\n", idx.Root())
	fmt.Fprintf(w, "Dates:   %d\n", idx.Len())
	if idx.Len() > 0 {
		fmt.Fprintf(w, "\n")
	}
	for _, e := range idx.Entries() {
		fmt.Fprintf(w, "  %s  %s\n", e.Date, filepath.Base(e.Dir))
	}

	if collisions := idx.Collisions(); len(collisions) > 0 {
		fmt.Fprintf(w, "\nDuplicate dates:\n")
		for _, c := range collisions {
			fmt.Fprintf(w, "  %s  using %s, ignoring %s\n", c.Date, filepath.Base(c.Kept), filepath.Base(c.Dropped))
		}
	}
	return nil
}
