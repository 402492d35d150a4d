// Package window holds the ordered registry of placeholder windows. A window
// has no identity beyond its position in the registry.
package window

import "github.com/1broseidon/tilemux/internal/tiling"

// Kind tags what a window hosts.
type Kind int

const (
	// KindDesktop is the window every session starts with.
	KindDesktop Kind = iota
	// KindTerminal is a window created by a split.
	KindTerminal
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindDesktop:
		return "desktop"
	case KindTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Record is a single window entry.
type Record struct {
	Kind     Kind   `json:"kind"`
	Title    string `json:"title"`
	Selected bool   `json:"selected"`
}

// Registry is the ordered window collection.
type Registry struct {
	records []Record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Len returns the number of windows.
func (r *Registry) Len() int {
	return len(r.records)
}

// At returns the record at index i.
func (r *Registry) At(i int) (Record, bool) {
	if i < 0 || i >= len(r.records) {
		return Record{}, false
	}
	return r.records[i], true
}

// Records returns a copy of all records in order.
func (r *Registry) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Create appends a new unselected window and returns its index.
func (r *Registry) Create(kind Kind, title string) int {
	r.records = append(r.records, Record{Kind: kind, Title: title})
	return len(r.records) - 1
}

// SetSelected sets the selection flag of window i. Keeping exactly one
// window selected is the caller's job.
func (r *Registry) SetSelected(i int, selected bool) error {
	if i < 0 || i >= len(r.records) {
		return tiling.OutOfRange("set selected", i, len(r.records))
	}
	r.records[i].Selected = selected
	return nil
}

// InsertAfter inserts a new unselected window right after anchor, shifting
// every later window up by one, and returns the new index (anchor+1).
func (r *Registry) InsertAfter(anchor int, kind Kind, title string) (int, error) {
	if anchor < 0 || anchor >= len(r.records) {
		return 0, tiling.OutOfRange("insert after", anchor, len(r.records))
	}

	at := anchor + 1
	r.records = append(r.records, Record{})
	copy(r.records[at+1:], r.records[at:])
	r.records[at] = Record{Kind: kind, Title: title}
	return at, nil
}

// SelectedIndices returns the indices of every selected window.
func (r *Registry) SelectedIndices() []int {
	var out []int
	for i, rec := range r.records {
		if rec.Selected {
			out = append(out, i)
		}
	}
	return out
}
