package tiling

import "fmt"

// Layout maps each window index to its rectangle.
type Layout []Rect

// Covers reports whether the layout exactly tiles area: every rect lies
// inside it, no two rects overlap, and the areas sum to the parent area.
func (l Layout) Covers(area Rect) bool {
	total := 0
	for i, r := range l {
		if !area.Contains(r) {
			return false
		}
		for j := i + 1; j < len(l); j++ {
			if r.Intersects(l[j]) {
				return false
			}
		}
		total += r.Area()
	}
	return total == area.Area()
}

// Resolve replays the grid against area and returns one rectangle for each
// of the n live windows.
//
// Each split divides the most recently assigned rectangle of the slot that
// already owns a region; that slot keeps the first half and the other slot
// receives the second. Only the first split may start from area itself,
// since any later split that references no laid-out window would overlap an
// existing region. An empty grid assigns area to the single window.
//
// A detached split, one after the first whose windows have no region yet,
// is an error here; a naive replay would split area a second time.
func Resolve(area Rect, grid Grid, n int) (Layout, error) {
	if n <= 0 {
		return nil, &InvariantError{Op: "resolve", Index: -1, Len: n, Detail: "no windows to lay out"}
	}
	if len(grid) == 0 {
		if n != 1 {
			return nil, &InvariantError{Op: "resolve", Index: -1, Len: n, Detail: "empty view grid with more than one window"}
		}
		return Layout{area}, nil
	}
	if err := grid.Validate(n); err != nil {
		return nil, err
	}

	rects := make(Layout, n)
	resolved := make([]bool, n)

	for i, s := range grid {
		parent := area
		owner, sibling := s.A, s.B

		switch {
		case resolved[s.A] && resolved[s.B]:
			return nil, &InvariantError{
				Op:     "resolve",
				Index:  s.B,
				Len:    n,
				Detail: fmt.Sprintf("split #%d %s: both windows already laid out", i, s),
			}
		case resolved[s.A]:
			parent = rects[s.A]
		case resolved[s.B]:
			parent = rects[s.B]
			owner, sibling = s.B, s.A
		case i > 0:
			return nil, &InvariantError{
				Op:     "resolve",
				Index:  s.A,
				Len:    n,
				Detail: fmt.Sprintf("split #%d %s: neither window owns a region", i, s),
			}
		}

		rects[owner], rects[sibling] = parent.SplitHalf(s.Orientation)
		resolved[owner], resolved[sibling] = true, true
	}

	for i, ok := range resolved {
		if !ok {
			return nil, &InvariantError{Op: "resolve", Index: i, Len: n, Detail: "window not covered by any split"}
		}
	}

	return rects, nil
}
