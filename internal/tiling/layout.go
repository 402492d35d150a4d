package tiling

import (
	"fmt"

	"github.com/1broseidon/tilemux/internal/config"
)

// Rect represents a window position and size in terminal cells
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Orientation is the direction of a 50/50 split.
type Orientation int

const (
	// Horizontal places the halves side by side (the width is divided).
	Horizontal Orientation = iota
	// Vertical stacks the halves (the height is divided).
	Vertical
)

// String returns the string representation of the orientation
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// ParseOrientation converts "horizontal"/"vertical" (or "h"/"v") to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	default:
		return Horizontal, fmt.Errorf("unknown orientation %q (want horizontal or vertical)", s)
	}
}

// MarshalText encodes the orientation by name.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an orientation name.
func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Area returns Width*Height, or 0 for degenerate rects.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Area() == 0
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Intersects reports whether the two rects share at least one cell.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.X+other.Width && other.X < r.X+r.Width &&
		r.Y < other.Y+other.Height && other.Y < r.Y+r.Height
}

// SplitHalf divides r into two halves along the orientation. The first half
// gets floor(n/2) cells and the second the remainder, so the halves always
// tile r exactly.
func (r Rect) SplitHalf(o Orientation) (first, second Rect) {
	first, second = r, r
	switch o {
	case Vertical:
		first.Height = r.Height / 2
		second.Y = r.Y + first.Height
		second.Height = r.Height - first.Height
	default:
		first.Width = r.Width / 2
		second.X = r.X + first.Width
		second.Width = r.Width - first.Width
	}
	return first, second
}

// ApplyPadding shrinks the render area by the configured screen padding,
// returning adjusted bounds clamped to at least 1x1
func ApplyPadding(area Rect, padding config.Margins) Rect {
	adjusted := Rect{
		X:      area.X + padding.Left,
		Y:      area.Y + padding.Top,
		Width:  area.Width - padding.Left - padding.Right,
		Height: area.Height - padding.Top - padding.Bottom,
	}

	if adjusted.Width < 1 {
		adjusted.Width = 1
	}
	if adjusted.Height < 1 {
		adjusted.Height = 1
	}

	return adjusted
}
