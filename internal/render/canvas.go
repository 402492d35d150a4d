// Package render draws a session into a grid of cells. Frontends turn the
// canvas into output: a lipgloss string for bubbletea, or tcell cells.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/tilemux/internal/config"
)

// Role tells a sink how to style a cell.
type Role uint8

const (
	RoleBlank Role = iota
	RoleBorder
	RoleTitle
	RoleBody
	RoleHelp
)

// Cell is one character cell. A Rune of 0 marks the trailing half of a
// wide character drawn in the cell to its left.
type Cell struct {
	Rune     rune
	Role     Role
	Selected bool
}

// MaxScreenDim bounds both sides of a screen the renderer will allocate.
const MaxScreenDim = 4096

// CheckSize reports whether a width x height screen can be drawn.
func CheckSize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("screen size %dx%d: width and height must be positive", width, height)
	}
	if width > MaxScreenDim || height > MaxScreenDim {
		return fmt.Errorf("screen size %dx%d: width and height must be at most %d", width, height, MaxScreenDim)
	}
	return nil
}

// Canvas is a Width x Height grid of cells.
type Canvas struct {
	Width  int
	Height int
	cells  []Cell
}

// NewCanvas returns a blank canvas. Sides are clamped to
// [0, MaxScreenDim].
func NewCanvas(width, height int) *Canvas {
	width = max(0, min(width, MaxScreenDim))
	height = max(0, min(height, MaxScreenDim))
	c := &Canvas{Width: width, Height: height, cells: make([]Cell, width*height)}
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' '}
	}
	return c
}

// At returns the cell at (x, y); out-of-bounds reads return a blank cell.
func (c *Canvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return Cell{Rune: ' '}
	}
	return c.cells[y*c.Width+x]
}

func (c *Canvas) set(x, y int, r rune, role Role, selected bool) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.cells[y*c.Width+x] = Cell{Rune: r, Role: role, Selected: selected}
}

// text writes s starting at (x, y), clipped to maxWidth cells.
func (c *Canvas) text(x, y int, s string, maxWidth int, role Role, selected bool) {
	if maxWidth <= 0 {
		return
	}
	s = runewidth.Truncate(s, maxWidth, "…")
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.set(x, y, r, role, selected)
		if w == 2 {
			c.set(x+1, y, 0, role, selected)
		}
		x += w
	}
}

// Lines returns the canvas as plain text, one string per row.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.Height)
	var sb strings.Builder
	for y := 0; y < c.Height; y++ {
		sb.Reset()
		for x := 0; x < c.Width; x++ {
			if r := c.At(x, y).Rune; r != 0 {
				sb.WriteRune(r)
			}
		}
		lines[y] = sb.String()
	}
	return lines
}

// String renders the canvas with lipgloss, coloring borders and titles by
// selection.
func (c *Canvas) String(theme config.Theme) string {
	styles := newStyles(theme)

	rows := make([]string, c.Height)
	var row, run strings.Builder
	for y := 0; y < c.Height; y++ {
		row.Reset()
		run.Reset()
		var cur Cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			row.WriteString(styles.render(cur, run.String()))
			run.Reset()
		}
		for x := 0; x < c.Width; x++ {
			cell := c.At(x, y)
			if cell.Rune == 0 {
				continue
			}
			if run.Len() > 0 && (cell.Role != cur.Role || cell.Selected != cur.Selected) {
				flush()
			}
			cur = cell
			run.WriteRune(cell.Rune)
		}
		flush()
		rows[y] = row.String()
	}
	return strings.Join(rows, "\n")
}

type styles struct {
	border, borderSelected lipgloss.Style
	title, titleSelected   lipgloss.Style
	help                   lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	sel := lipgloss.Color(theme.SelectedColor)
	unsel := lipgloss.Color(theme.UnselectedColor)
	return styles{
		border:         lipgloss.NewStyle().Foreground(unsel),
		borderSelected: lipgloss.NewStyle().Foreground(sel),
		title:          lipgloss.NewStyle().Bold(true).Foreground(unsel),
		titleSelected:  lipgloss.NewStyle().Bold(true).Foreground(sel),
		help:           lipgloss.NewStyle().Foreground(lipgloss.Color(theme.HelpColor)),
	}
}

func (s styles) render(cell Cell, text string) string {
	switch cell.Role {
	case RoleBorder:
		if cell.Selected {
			return s.borderSelected.Render(text)
		}
		return s.border.Render(text)
	case RoleTitle:
		if cell.Selected {
			return s.titleSelected.Render(text)
		}
		return s.title.Render(text)
	case RoleHelp:
		return s.help.Render(text)
	default:
		return text
	}
}
