// Package screen is the tcell frontend: it forwards tcell events into the
// session loop and blits rendered canvases onto the terminal.
package screen

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/1broseidon/tilemux/internal/config"
	"github.com/1broseidon/tilemux/internal/input"
	"github.com/1broseidon/tilemux/internal/mux"
	"github.com/1broseidon/tilemux/internal/render"
)

// Terminal implements mux.Sink on a tcell screen.
type Terminal struct {
	screen   tcell.Screen
	renderer *render.Renderer
	styles   styles
	closed   bool
	mu       sync.Mutex
}

// NewTerminal wraps an existing (possibly simulated) tcell screen.
func NewTerminal(screen tcell.Screen, renderer *render.Renderer) *Terminal {
	return &Terminal{
		screen:   screen,
		renderer: renderer,
		styles:   newStyles(renderer.Theme),
	}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	return nil
}

// Shutdown restores the terminal. Pending PollEvent calls return nil, which
// closes the event stream. Safe to call more than once.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Render draws the session and shows the frame.
func (t *Terminal) Render(s *mux.Session) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	canvas, err := t.renderer.Render(s, w, h)
	if err != nil {
		return err
	}

	t.screen.Clear()
	for y := 0; y < canvas.Height; y++ {
		for x := 0; x < canvas.Width; x++ {
			cell := canvas.At(x, y)
			if cell.Rune == 0 {
				continue
			}
			t.screen.SetContent(x, y, cell.Rune, nil, t.styles.of(cell))
		}
	}
	t.screen.Show()
	return nil
}

// Events starts forwarding screen events. The channel closes when the
// screen is finalized or ctx is done.
func (t *Terminal) Events(ctx context.Context) <-chan mux.Event {
	out := make(chan mux.Event)
	go func() {
		defer close(out)
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			mev, ok := convertEvent(ev)
			if !ok {
				continue
			}
			if mev.Kind == mux.EventResize {
				t.screen.Sync()
			}
			select {
			case out <- mev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// callEvent carries a session call through the tcell event queue.
type callEvent struct {
	tcell.EventTime
	fn func(*mux.Session)
}

// Exec runs fn on the loop reading Events. It implements mux.Executor.
func (t *Terminal) Exec(ctx context.Context, fn func(*mux.Session)) error {
	return mux.CallAndWait(ctx, func(ev mux.Event) error {
		ce := &callEvent{fn: ev.Call}
		ce.SetEventNow()
		return t.screen.PostEvent(ce)
	}, fn)
}

// Run drives a session on the real terminal until it quits. A non-nil
// control is started once the terminal is ready.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, control mux.Controller) error {
	s := mux.NewSession(mux.OptionsFromConfig(cfg, logger))

	tscreen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	term := NewTerminal(tscreen, render.NewRenderer(cfg, s.KeyMap()))
	if err := term.Init(); err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}
	defer term.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := term.Events(ctx)
	if control != nil {
		stop := control(term.Exec)
		defer stop()
	}
	return s.Run(ctx, events, term, cfg.TickInterval())
}

func convertEvent(ev tcell.Event) (mux.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		k, ok := convertKey(e)
		if !ok {
			return mux.Event{}, false
		}
		return mux.KeyEvent(k), true
	case *tcell.EventResize:
		return mux.Event{Kind: mux.EventResize}, true
	case *callEvent:
		return mux.Event{Kind: mux.EventCall, Call: e.fn}, true
	default:
		return mux.Event{}, false
	}
}

// convertKey maps a tcell key event to an input.Key. tcell only reports
// presses.
func convertKey(e *tcell.EventKey) (input.Key, bool) {
	mod := convertMod(e.Modifiers())

	switch k := e.Key(); {
	case k == tcell.KeyRune:
		r := e.Rune()
		// Shift is already folded into the rune.
		return input.Key{Code: input.CodeRune, Rune: r, Mod: mod &^ input.ModShift}, true
	case k == tcell.KeyEscape:
		return input.Key{Code: input.CodeEscape, Mod: mod}, true
	case k == tcell.KeyEnter:
		return input.Key{Code: input.CodeEnter, Mod: mod &^ input.ModCtrl}, true
	case k == tcell.KeyTab:
		return input.Key{Code: input.CodeTab, Mod: mod &^ input.ModCtrl}, true
	case k == tcell.KeyBacktab:
		return input.Key{Code: input.CodeTab, Mod: mod | input.ModShift}, true
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return input.Key{Code: input.CodeBackspace, Mod: mod &^ input.ModCtrl}, true
	case k == tcell.KeyUp:
		return input.Key{Code: input.CodeUp, Mod: mod}, true
	case k == tcell.KeyDown:
		return input.Key{Code: input.CodeDown, Mod: mod}, true
	case k == tcell.KeyLeft:
		return input.Key{Code: input.CodeLeft, Mod: mod}, true
	case k == tcell.KeyRight:
		return input.Key{Code: input.CodeRight, Mod: mod}, true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		r := 'a' + rune(k-tcell.KeyCtrlA)
		return input.Key{Code: input.CodeRune, Rune: r, Mod: mod | input.ModCtrl}, true
	default:
		return input.Key{}, false
	}
}

func convertMod(m tcell.ModMask) input.Mod {
	var mod input.Mod
	if m&tcell.ModCtrl != 0 {
		mod |= input.ModCtrl
	}
	if m&tcell.ModAlt != 0 || m&tcell.ModMeta != 0 {
		mod |= input.ModAlt
	}
	if m&tcell.ModShift != 0 {
		mod |= input.ModShift
	}
	return mod
}

type styles struct {
	border, borderSelected tcell.Style
	title, titleSelected   tcell.Style
	help                   tcell.Style
}

func newStyles(theme config.Theme) styles {
	sel := parseColor(theme.SelectedColor)
	unsel := parseColor(theme.UnselectedColor)
	return styles{
		border:         tcell.StyleDefault.Foreground(unsel),
		borderSelected: tcell.StyleDefault.Foreground(sel),
		title:          tcell.StyleDefault.Foreground(unsel).Bold(true),
		titleSelected:  tcell.StyleDefault.Foreground(sel).Bold(true),
		help:           tcell.StyleDefault.Foreground(parseColor(theme.HelpColor)),
	}
}

func (s styles) of(cell render.Cell) tcell.Style {
	switch cell.Role {
	case render.RoleBorder:
		if cell.Selected {
			return s.borderSelected
		}
		return s.border
	case render.RoleTitle:
		if cell.Selected {
			return s.titleSelected
		}
		return s.title
	case render.RoleHelp:
		return s.help
	default:
		return tcell.StyleDefault
	}
}

// parseColor accepts the same values as lipgloss: an ANSI palette index
// ("15") or a hex color ("#ffffff"). Color names also work.
func parseColor(s string) tcell.Color {
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < 256 {
		return tcell.PaletteColor(n)
	}
	return tcell.GetColor(s)
}
