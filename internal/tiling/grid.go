package tiling

import "fmt"

// Split is one entry of the view grid: a 50/50 division of the region
// currently owned by window A, handing the second half to window B.
type Split struct {
	Orientation Orientation `json:"orientation"`
	A           int         `json:"a"`
	B           int         `json:"b"`
}

func (s Split) String() string {
	return fmt.Sprintf("%s(%d,%d)", s.Orientation, s.A, s.B)
}

// Grid is the ordered sequence of splits. Order matters: replaying it from
// the first entry reproduces the progressive subdivision of the screen.
type Grid []Split

// Append records a new split of slot a, with b as the new sibling.
func (g *Grid) Append(o Orientation, a, b int) {
	*g = append(*g, Split{Orientation: o, A: a, B: b})
}

// Renumber shifts every slot >= insertAt up by one. It must run together
// with the registry insertion at insertAt so slots keep pointing at the same
// windows.
func (g Grid) Renumber(insertAt int) {
	for i := range g {
		if g[i].A >= insertAt {
			g[i].A++
		}
		if g[i].B >= insertAt {
			g[i].B++
		}
	}
}

// Clone returns an independent copy of the grid.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	copy(out, g)
	return out
}

// Validate checks that every slot references one of n live windows.
func (g Grid) Validate(n int) error {
	for i, s := range g {
		for _, slot := range [2]int{s.A, s.B} {
			if slot < 0 || slot >= n {
				err := OutOfRange("grid", slot, n)
				err.Detail = fmt.Sprintf("split #%d %s: slot %s", i, s, err.Detail)
				return err
			}
		}
		if s.A == s.B {
			return &InvariantError{
				Op:     "grid",
				Index:  s.A,
				Len:    n,
				Detail: fmt.Sprintf("split #%d %s divides a window with itself", i, s),
			}
		}
	}
	return nil
}
