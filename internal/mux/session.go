// Package mux is the session controller: it owns the window registry, the
// view grid and the selection cursor, and turns key presses into mutations.
package mux

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/1broseidon/tilemux/internal/config"
	"github.com/1broseidon/tilemux/internal/input"
	"github.com/1broseidon/tilemux/internal/tiling"
	"github.com/1broseidon/tilemux/internal/window"
)

// ErrNoSuchWindow is returned when a caller names a window that does not exist.
var ErrNoSuchWindow = errors.New("no such window")

// Options configures a new session.
type Options struct {
	TitleFormat  string
	InitialTitle string
	// Strict runs Check after every mutation.
	Strict bool
	KeyMap KeyMap
	Logger *slog.Logger
}

// OptionsFromConfig derives session options from the effective config.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		TitleFormat:  cfg.TitleFormat,
		InitialTitle: cfg.InitialTitle,
		Strict:       cfg.Strict,
		KeyMap:       NewKeyMap(cfg.Keys),
		Logger:       logger,
	}
}

// Session is one multiplexer session. It always holds at least one window,
// and exactly one of them is selected.
type Session struct {
	id       string
	windows  *window.Registry
	grid     tiling.Grid
	selected int
	running  bool

	opts   Options
	logger *slog.Logger
}

// NewSession starts a session with a single selected desktop window.
func NewSession(opts Options) *Session {
	if opts.TitleFormat == "" {
		opts.TitleFormat = "%d"
	}
	if opts.InitialTitle == "" {
		opts.InitialTitle = "Desktop"
	}
	if opts.KeyMap.Quit.Keys() == nil {
		opts.KeyMap = DefaultKeyMap()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	id := uuid.NewString()
	s := &Session{
		id:      id,
		windows: window.NewRegistry(),
		running: true,
		opts:    opts,
		logger:  opts.Logger.With("session_id", id),
	}
	s.selected = s.windows.Create(window.KindDesktop, opts.InitialTitle)
	// Index 0 was just created.
	_ = s.windows.SetSelected(s.selected, true)
	return s
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Running reports whether the session has not been asked to quit.
func (s *Session) Running() bool { return s.running }

// Selected returns the index of the selected window.
func (s *Session) Selected() int { return s.selected }

// Len returns the number of windows.
func (s *Session) Len() int { return s.windows.Len() }

// KeyMap returns the session's key bindings.
func (s *Session) KeyMap() KeyMap { return s.opts.KeyMap }

// HandleKey resolves k through the key map and applies the resulting action.
// Releases, unbound keys and input after quit are ignored. The only errors
// are invariant violations.
func (s *Session) HandleKey(k input.Key) (Action, error) {
	if k.Kind == input.Release || !s.running {
		return ActionNone, nil
	}
	action := s.opts.KeyMap.Resolve(k)
	if action != ActionNone {
		s.logger.Debug("key", "key", k.String(), "action", action.String())
	}
	return action, s.Apply(action)
}

// Apply performs one action.
func (s *Session) Apply(a Action) error {
	var err error
	switch a {
	case ActionNone:
		return nil
	case ActionQuit:
		s.Quit()
		return nil
	case ActionSplitHorizontal:
		_, err = s.CreateWindow(tiling.Horizontal)
	case ActionSplitVertical:
		_, err = s.CreateWindow(tiling.Vertical)
	case ActionSelectPrev:
		err = s.SelectPrev()
	case ActionSelectNext:
		err = s.SelectNext()
	default:
		return nil
	}
	return err
}

// Quit stops the session; the loop exits after the current iteration.
func (s *Session) Quit() {
	if !s.running {
		return
	}
	s.running = false
	s.logger.Info("quit", "windows", s.windows.Len())
}

// CreateWindow splits the selected window. The new terminal window is
// inserted right after the selected one, every grid slot at or past the
// insertion point moves up by one, and the split (selected, selected+1) is
// appended. The selection stays where it was.
func (s *Session) CreateWindow(o tiling.Orientation) (int, error) {
	title := config.FormatTitle(s.opts.TitleFormat, s.windows.Len())

	idx, err := s.windows.InsertAfter(s.selected, window.KindTerminal, title)
	if err != nil {
		return 0, s.violation(err)
	}
	s.grid.Renumber(idx)
	s.grid.Append(o, s.selected, idx)

	s.logger.Info("window created",
		"index", idx,
		"orientation", o.String(),
		"title", title,
		"windows", s.windows.Len(),
	)
	return idx, s.Verify()
}

// SelectPrev moves the selection one window left, wrapping to the last.
func (s *Session) SelectPrev() error {
	n := s.windows.Len()
	return s.moveSelection((s.selected - 1 + n) % n)
}

// SelectNext moves the selection one window right, wrapping to the first.
func (s *Session) SelectNext() error {
	n := s.windows.Len()
	return s.moveSelection((s.selected + 1) % n)
}

// Select moves the selection to window i.
func (s *Session) Select(i int) error {
	if i < 0 || i >= s.windows.Len() {
		return fmt.Errorf("select %d: %w (windows=%d)", i, ErrNoSuchWindow, s.windows.Len())
	}
	return s.moveSelection(i)
}

func (s *Session) moveSelection(to int) error {
	from := s.selected
	if err := s.windows.SetSelected(from, false); err != nil {
		return s.violation(err)
	}
	if err := s.windows.SetSelected(to, true); err != nil {
		return s.violation(err)
	}
	s.selected = to

	if from != to {
		s.logger.Debug("selection moved", "from", from, "to", to)
	}
	return s.Verify()
}

// Layout resolves the view grid against area. It does not modify the session.
func (s *Session) Layout(area tiling.Rect) (tiling.Layout, error) {
	layout, err := tiling.Resolve(area, s.grid, s.windows.Len())
	if err != nil {
		return nil, s.violation(err)
	}
	return layout, nil
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	SessionID string          `json:"session_id"`
	Windows   []window.Record `json:"windows"`
	Grid      tiling.Grid     `json:"grid"`
	Selected  int             `json:"selected"`
	Running   bool            `json:"running"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	grid := s.grid.Clone()
	if grid == nil {
		grid = tiling.Grid{}
	}
	return Snapshot{
		SessionID: s.id,
		Windows:   s.windows.Records(),
		Grid:      grid,
		Selected:  s.selected,
		Running:   s.running,
	}
}

// Check verifies that exactly one window is selected, that it is the one
// under the cursor, and that every grid slot names a live window.
func (s *Session) Check() error {
	n := s.windows.Len()
	if n == 0 {
		return &tiling.InvariantError{Op: "check", Index: -1, Len: 0, Detail: "session has no windows"}
	}
	sel := s.windows.SelectedIndices()
	if len(sel) != 1 {
		return &tiling.InvariantError{
			Op:     "check",
			Index:  -1,
			Len:    n,
			Detail: fmt.Sprintf("expected exactly one selected window, got %v", sel),
		}
	}
	if sel[0] != s.selected {
		return &tiling.InvariantError{
			Op:     "check",
			Index:  sel[0],
			Len:    n,
			Detail: fmt.Sprintf("selected flag does not match cursor %d", s.selected),
		}
	}
	return s.grid.Validate(n)
}

// Verify runs Check when the session is strict and logs any violation.
func (s *Session) Verify() error {
	if !s.opts.Strict {
		return nil
	}
	if err := s.Check(); err != nil {
		return s.violation(err)
	}
	return nil
}

func (s *Session) violation(err error) error {
	if errors.Is(err, tiling.ErrInvariant) {
		s.logger.Error("invariant violation", "error", err)
	}
	return err
}
