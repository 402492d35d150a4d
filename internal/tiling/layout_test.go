package tiling

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/1broseidon/tilemux/internal/config"
)

func TestSplitHalf_TilesParentOnOddSizes(t *testing.T) {
	tests := []struct {
		name        string
		rect        Rect
		orientation Orientation
		first       Rect
		second      Rect
	}{
		{
			name:        "horizontal even",
			rect:        Rect{X: 0, Y: 0, Width: 80, Height: 24},
			orientation: Horizontal,
			first:       Rect{X: 0, Y: 0, Width: 40, Height: 24},
			second:      Rect{X: 40, Y: 0, Width: 40, Height: 24},
		},
		{
			name:        "horizontal odd gives remainder to second",
			rect:        Rect{X: 3, Y: 2, Width: 81, Height: 10},
			orientation: Horizontal,
			first:       Rect{X: 3, Y: 2, Width: 40, Height: 10},
			second:      Rect{X: 43, Y: 2, Width: 41, Height: 10},
		},
		{
			name:        "vertical odd",
			rect:        Rect{X: 0, Y: 0, Width: 10, Height: 25},
			orientation: Vertical,
			first:       Rect{X: 0, Y: 0, Width: 10, Height: 12},
			second:      Rect{X: 0, Y: 12, Width: 10, Height: 13},
		},
		{
			name:        "single column",
			rect:        Rect{X: 0, Y: 0, Width: 1, Height: 4},
			orientation: Horizontal,
			first:       Rect{X: 0, Y: 0, Width: 0, Height: 4},
			second:      Rect{X: 0, Y: 0, Width: 1, Height: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, second := tt.rect.SplitHalf(tt.orientation)
			if first != tt.first {
				t.Fatalf("first = %+v, want %+v", first, tt.first)
			}
			if second != tt.second {
				t.Fatalf("second = %+v, want %+v", second, tt.second)
			}
			if first.Area()+second.Area() != tt.rect.Area() {
				t.Fatalf("halves do not sum to parent area")
			}
			if first.Intersects(second) {
				t.Fatalf("halves overlap: %+v %+v", first, second)
			}
		})
	}
}

func TestApplyPadding_ClampsToMinimumSize(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	adjusted := ApplyPadding(area, config.Margins{Top: 1, Bottom: 1, Left: 2, Right: 3})
	want := Rect{X: 2, Y: 1, Width: 5, Height: 8}
	if adjusted != want {
		t.Fatalf("expected %+v, got %+v", want, adjusted)
	}

	adjusted = ApplyPadding(area, config.Margins{Left: 20, Top: 20})
	if adjusted.Width != 1 || adjusted.Height != 1 {
		t.Fatalf("expected 1x1, got %dx%d", adjusted.Width, adjusted.Height)
	}
}

func TestResolve_EmptyGridCoversArea(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 80, Height: 24}

	layout, err := Resolve(area, nil, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layout) != 1 || layout[0] != area {
		t.Fatalf("expected single window to cover %+v, got %+v", area, layout)
	}
}

func TestResolve_EmptyGridWithManyWindowsFails(t *testing.T) {
	_, err := Resolve(Rect{Width: 80, Height: 24}, nil, 2)
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestResolve_ProgressiveSubdivision(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 80, Height: 24}
	// Window 0 split twice: first horizontally (window 2 to the right),
	// then its remaining left half horizontally again (window 1).
	grid := Grid{
		{Orientation: Horizontal, A: 0, B: 2},
		{Orientation: Horizontal, A: 0, B: 1},
	}

	layout, err := Resolve(area, grid, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Layout{
		{X: 0, Y: 0, Width: 20, Height: 24},
		{X: 20, Y: 0, Width: 20, Height: 24},
		{X: 40, Y: 0, Width: 40, Height: 24},
	}
	for i := range want {
		if layout[i] != want[i] {
			t.Errorf("window %d = %+v, want %+v", i, layout[i], want[i])
		}
	}
	if !layout.Covers(area) {
		t.Fatalf("layout does not tile area: %+v", layout)
	}
}

func TestResolve_ChainedSplitUsesLatestRect(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 100, Height: 40}
	grid := Grid{
		{Orientation: Horizontal, A: 0, B: 1},
		{Orientation: Vertical, A: 1, B: 2},
		{Orientation: Horizontal, A: 2, B: 3},
	}

	layout, err := Resolve(area, grid, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Layout{
		{X: 0, Y: 0, Width: 50, Height: 40},
		{X: 50, Y: 0, Width: 50, Height: 20},
		{X: 50, Y: 20, Width: 25, Height: 20},
		{X: 75, Y: 20, Width: 25, Height: 20},
	}
	for i := range want {
		if layout[i] != want[i] {
			t.Errorf("window %d = %+v, want %+v", i, layout[i], want[i])
		}
	}
}

func TestResolve_RejectsStructuralViolations(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 80, Height: 24}

	tests := []struct {
		name string
		grid Grid
		n    int
	}{
		{"slot out of range", Grid{{A: 0, B: 2}}, 2},
		{"negative slot", Grid{{A: -1, B: 0}}, 2},
		{"self split", Grid{{A: 1, B: 1}}, 2},
		{"window never covered", Grid{{A: 0, B: 1}}, 3},
		{"detached split", Grid{{A: 0, B: 1}, {A: 2, B: 3}}, 4},
		{"both already laid out", Grid{{A: 0, B: 1}, {A: 1, B: 0}}, 2},
		{"no windows", Grid{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(area, tt.grid, tt.n)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrInvariant) {
				t.Fatalf("expected ErrInvariant, got %v", err)
			}
			var ierr *InvariantError
			if !errors.As(err, &ierr) {
				t.Fatalf("expected *InvariantError, got %T", err)
			}
		})
	}
}

func TestGridRenumber_AllOrderings(t *testing.T) {
	// Every relative ordering of (slot a, slot b, insertion point).
	for a := 0; a < 5; a++ {
		for b := 0; b < 5; b++ {
			for at := 0; at <= 5; at++ {
				g := Grid{{Orientation: Vertical, A: a, B: b}}
				g.Renumber(at)

				wantA, wantB := a, b
				if a >= at {
					wantA++
				}
				if b >= at {
					wantB++
				}
				if g[0].A != wantA || g[0].B != wantB {
					t.Fatalf("Renumber(%d) on (%d,%d) = (%d,%d), want (%d,%d)",
						at, a, b, g[0].A, g[0].B, wantA, wantB)
				}
				if g[0].Orientation != Vertical {
					t.Fatalf("orientation changed by renumber")
				}
			}
		}
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"horizontal", Horizontal, false},
		{"h", Horizontal, false},
		{"vertical", Vertical, false},
		{"v", Vertical, false},
		{"diagonal", Horizontal, true},
	}
	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseOrientation(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Fatalf("ParseOrientation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGridJSON_UsesOrientationNames(t *testing.T) {
	g := Grid{{Orientation: Vertical, A: 0, B: 1}}
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"orientation":"vertical","a":0,"b":1}]`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}

	var back Grid
	if err := json.Unmarshal([]byte(`[{"orientation":"h","a":1,"b":2}]`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 1 || back[0] != (Split{Orientation: Horizontal, A: 1, B: 2}) {
		t.Fatalf("unexpected grid %v", back)
	}
	if err := json.Unmarshal([]byte(`[{"orientation":"diagonal"}]`), &back); err == nil {
		t.Fatalf("expected error for unknown orientation")
	}
}
