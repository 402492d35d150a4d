package render

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/tilemux/internal/config"
	"github.com/1broseidon/tilemux/internal/mux"
	"github.com/1broseidon/tilemux/internal/tiling"
	"github.com/1broseidon/tilemux/internal/window"
)

// Frame is everything Draw needs: window records, their rectangles, and
// the optional help rows drawn at the bottom.
type Frame struct {
	Windows     []window.Record
	Layout      tiling.Layout
	Placeholder string
	Help        []string
}

// Draw paints the frame onto a new width x height canvas. Each window gets
// a border, its title centered on the top edge and the placeholder centered
// inside. Windows smaller than 2x2 are skipped.
func Draw(width, height int, f Frame) *Canvas {
	c := NewCanvas(width, height)
	for i, r := range f.Layout {
		if i >= len(f.Windows) {
			break
		}
		drawWindow(c, r, f.Windows[i], f.Placeholder)
	}
	for i, line := range f.Help {
		if y := height - len(f.Help) + i; y >= 0 {
			c.text(0, y, line, width, RoleHelp, false)
		}
	}
	return c
}

func drawWindow(c *Canvas, r tiling.Rect, w window.Record, placeholder string) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	x1, y1 := r.X, r.Y
	x2, y2 := r.X+r.Width-1, r.Y+r.Height-1
	sel := w.Selected

	for x := x1 + 1; x < x2; x++ {
		c.set(x, y1, '─', RoleBorder, sel)
		c.set(x, y2, '─', RoleBorder, sel)
	}
	for y := y1 + 1; y < y2; y++ {
		c.set(x1, y, '│', RoleBorder, sel)
		c.set(x2, y, '│', RoleBorder, sel)
	}
	c.set(x1, y1, '┌', RoleBorder, sel)
	c.set(x2, y1, '┐', RoleBorder, sel)
	c.set(x1, y2, '└', RoleBorder, sel)
	c.set(x2, y2, '┘', RoleBorder, sel)

	inner := r.Width - 2
	if w.Title != "" {
		title := " " + w.Title + " "
		tw := min(runewidth.StringWidth(title), inner)
		c.text(x1+1+(inner-tw)/2, y1, title, inner, RoleTitle, sel)
	}

	if r.Height > 2 && placeholder != "" {
		pw := min(runewidth.StringWidth(placeholder), inner)
		c.text(x1+1+(inner-pw)/2, y1+r.Height/2, placeholder, inner, RoleBody, sel)
	}
}

// Renderer turns a session into a canvas using the display settings of the
// config.
type Renderer struct {
	Padding     config.Margins
	Placeholder string
	Theme       config.Theme
	ShowHelp    bool
	// FullHelp draws every binding group as columns instead of one row.
	FullHelp bool

	keys help.KeyMap
	help help.Model
}

// NewRenderer builds a renderer for the bindings of km.
func NewRenderer(cfg *config.Config, km mux.KeyMap) *Renderer {
	return &Renderer{
		Padding:     cfg.ScreenPadding,
		Placeholder: cfg.Placeholder,
		Theme:       cfg.Theme,
		ShowHelp:    cfg.ShowHelp,
		keys:        km,
		help:        plainHelp(),
	}
}

// plainHelp is a help model without colors; sinks style the help role.
func plainHelp() help.Model {
	h := help.New()
	plain := lipgloss.NewStyle()
	h.Styles = help.Styles{
		Ellipsis:       plain,
		ShortKey:       plain,
		ShortDesc:      plain,
		ShortSeparator: plain,
		FullKey:        plain,
		FullDesc:       plain,
		FullSeparator:  plain,
	}
	return h
}

// HelpLines renders the key help for a screen width cells wide. It is nil
// when help is off.
func (r *Renderer) HelpLines(width int) []string {
	if !r.ShowHelp || r.keys == nil {
		return nil
	}
	h := r.help
	h.Width = width
	var view string
	if r.FullHelp {
		view = h.FullHelpView(r.keys.FullHelp())
	} else {
		view = h.ShortHelpView(r.keys.ShortHelp())
	}
	if view == "" {
		return nil
	}
	return strings.Split(view, "\n")
}

// Area returns the rectangle windows are laid out in: the screen minus the
// help rows, shrunk by the padding.
func (r *Renderer) Area(width, height int) tiling.Rect {
	area := tiling.Rect{Width: width, Height: height}
	if n := len(r.HelpLines(width)); n > 0 && area.Height > n {
		area.Height -= n
	}
	return tiling.ApplyPadding(area, r.Padding)
}

// Render resolves the session layout for a width x height screen and draws
// it. Layout errors are invariant violations and are returned as is.
func (r *Renderer) Render(s *mux.Session, width, height int) (*Canvas, error) {
	layout, err := s.Layout(r.Area(width, height))
	if err != nil {
		return nil, err
	}
	return Draw(width, height, Frame{
		Windows:     s.Snapshot().Windows,
		Layout:      layout,
		Placeholder: r.Placeholder,
		Help:        r.HelpLines(width),
	}), nil
}
