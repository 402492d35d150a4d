package mux

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/tilemux/internal/config"
	"github.com/1broseidon/tilemux/internal/input"
	"github.com/1broseidon/tilemux/internal/tiling"
	"github.com/1broseidon/tilemux/internal/window"
)

var screen = tiling.Rect{X: 0, Y: 0, Width: 80, Height: 24}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(OptionsFromConfig(config.DefaultConfig(), nil))
}

func press(t *testing.T, s *Session, name string) Action {
	t.Helper()
	k, err := input.Parse(name)
	if err != nil {
		t.Fatalf("parse %q: %v", name, err)
	}
	action, err := s.HandleKey(k)
	if err != nil {
		t.Fatalf("HandleKey(%q) error: %v", name, err)
	}
	return action
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t)
	if s.Len() != 1 || s.Selected() != 0 || !s.Running() {
		t.Fatalf("unexpected initial state: len=%d selected=%d running=%v", s.Len(), s.Selected(), s.Running())
	}
	snap := s.Snapshot()
	if snap.Windows[0].Kind != window.KindDesktop || snap.Windows[0].Title != "Desktop" || !snap.Windows[0].Selected {
		t.Fatalf("unexpected initial window: %#v", snap.Windows[0])
	}
	if len(snap.Grid) != 0 {
		t.Fatalf("expected empty grid, got %v", snap.Grid)
	}
	if snap.SessionID == "" || snap.SessionID != s.ID() {
		t.Fatalf("unexpected session id %q", snap.SessionID)
	}

	layout, err := s.Layout(screen)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if len(layout) != 1 || layout[0] != screen {
		t.Fatalf("expected single full-screen rect, got %v", layout)
	}
}

func TestSplit_KeepsSelection(t *testing.T) {
	s := newTestSession(t)
	if got := press(t, s, "ctrl+t"); got != ActionSplitHorizontal {
		t.Fatalf("ctrl+t resolved to %v", got)
	}

	snap := s.Snapshot()
	if len(snap.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(snap.Windows))
	}
	want := tiling.Grid{{Orientation: tiling.Horizontal, A: 0, B: 1}}
	if !gridEqual(snap.Grid, want) {
		t.Fatalf("grid = %v, want %v", snap.Grid, want)
	}
	if snap.Selected != 0 {
		t.Fatalf("selection moved to %d", snap.Selected)
	}
	if snap.Windows[1].Kind != window.KindTerminal || snap.Windows[1].Title != "1" {
		t.Fatalf("unexpected new window: %#v", snap.Windows[1])
	}
}

func TestSelectNext_Wraps(t *testing.T) {
	s := newTestSession(t)
	press(t, s, "ctrl+t")

	press(t, s, "l")
	if s.Selected() != 1 {
		t.Fatalf("expected selection 1, got %d", s.Selected())
	}
	press(t, s, "l")
	if s.Selected() != 0 {
		t.Fatalf("expected wrap to 0, got %d", s.Selected())
	}
	if err := s.Check(); err != nil {
		t.Fatalf("Check() error: %v", err)
	}
}

func TestSecondSplit_RenumbersGrid(t *testing.T) {
	s := newTestSession(t)
	press(t, s, "ctrl+t")
	press(t, s, "ctrl+t")

	snap := s.Snapshot()
	if len(snap.Windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(snap.Windows))
	}
	want := tiling.Grid{
		{Orientation: tiling.Horizontal, A: 0, B: 2},
		{Orientation: tiling.Horizontal, A: 0, B: 1},
	}
	if !gridEqual(snap.Grid, want) {
		t.Fatalf("grid = %v, want %v", snap.Grid, want)
	}
	// The window created first now sits at index 2.
	if snap.Windows[2].Title != "1" || snap.Windows[1].Title != "2" {
		t.Fatalf("unexpected titles: %q %q", snap.Windows[1].Title, snap.Windows[2].Title)
	}

	layout, err := s.Layout(screen)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if !layout.Covers(screen) {
		t.Fatalf("layout %v does not tile %v", layout, screen)
	}
	if layout[2].Area() != screen.Area()/2 {
		t.Fatalf("window 2 should keep half the screen, got %v", layout[2])
	}
	if !(tiling.Rect{X: 0, Y: 0, Width: 40, Height: 24}).Contains(layout[0]) {
		t.Fatalf("window 0 should be nested in the left half, got %v", layout[0])
	}
}

func TestVerticalSplitFromSelectedWindow(t *testing.T) {
	s := newTestSession(t)
	press(t, s, "ctrl+t") // 0 | 1
	press(t, s, "l")      // select 1
	if got := press(t, s, "alt+t"); got != ActionSplitVertical {
		t.Fatalf("alt+t resolved to %v", got)
	}

	want := tiling.Grid{
		{Orientation: tiling.Horizontal, A: 0, B: 1},
		{Orientation: tiling.Vertical, A: 1, B: 2},
	}
	if !gridEqual(s.Snapshot().Grid, want) {
		t.Fatalf("grid = %v, want %v", s.Snapshot().Grid, want)
	}

	layout, err := s.Layout(screen)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	wantRects := tiling.Layout{
		{X: 0, Y: 0, Width: 40, Height: 24},
		{X: 40, Y: 0, Width: 40, Height: 12},
		{X: 40, Y: 12, Width: 40, Height: 12},
	}
	for i := range wantRects {
		if layout[i] != wantRects[i] {
			t.Fatalf("rect %d = %v, want %v", i, layout[i], wantRects[i])
		}
	}
}

func TestSelectPrevWraps(t *testing.T) {
	s := newTestSession(t)
	press(t, s, "ctrl+t")
	press(t, s, "ctrl+t")

	press(t, s, "H")
	if s.Selected() != 2 {
		t.Fatalf("expected wrap to 2, got %d", s.Selected())
	}
	press(t, s, "h")
	if s.Selected() != 1 {
		t.Fatalf("expected 1, got %d", s.Selected())
	}
}

func TestSingleWindowNavigationStaysPut(t *testing.T) {
	s := newTestSession(t)
	press(t, s, "l")
	press(t, s, "h")
	if s.Selected() != 0 {
		t.Fatalf("expected 0, got %d", s.Selected())
	}
	if err := s.Check(); err != nil {
		t.Fatalf("Check() error: %v", err)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, name := range []string{"esc", "q", "Q", "ctrl+c"} {
		t.Run(name, func(t *testing.T) {
			s := newTestSession(t)
			if got := press(t, s, name); got != ActionQuit {
				t.Fatalf("%s resolved to %v", name, got)
			}
			if s.Running() {
				t.Fatalf("session still running after %s", name)
			}
			// Input after quit is ignored.
			press(t, s, "ctrl+t")
			if s.Len() != 1 {
				t.Fatalf("split applied after quit")
			}
		})
	}
}

func TestIgnoredInput(t *testing.T) {
	s := newTestSession(t)

	for _, k := range []input.Key{
		input.Rune('x'),
		input.Named(input.CodeEnter),
		input.Ctrl('x'),
		{Code: input.CodeRune, Rune: 't', Mod: input.ModCtrl, Kind: input.Release},
	} {
		action, err := s.HandleKey(k)
		if err != nil || action != ActionNone {
			t.Fatalf("HandleKey(%v) = %v, %v; want none", k, action, err)
		}
	}
	if s.Len() != 1 || !s.Running() {
		t.Fatalf("ignored input changed the session")
	}
}

func TestSelect(t *testing.T) {
	s := newTestSession(t)
	press(t, s, "ctrl+t")

	if err := s.Select(1); err != nil {
		t.Fatalf("Select(1) error: %v", err)
	}
	if s.Selected() != 1 {
		t.Fatalf("expected 1, got %d", s.Selected())
	}
	err := s.Select(5)
	if !errors.Is(err, ErrNoSuchWindow) {
		t.Fatalf("expected ErrNoSuchWindow, got %v", err)
	}
	if s.Selected() != 1 {
		t.Fatalf("failed select moved the cursor")
	}
}

func TestCustomKeysAndTitleFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TitleFormat = "term-%d"
	cfg.Keys.SplitHorizontal = []string{"Ctrl+N"}
	s := NewSession(OptionsFromConfig(cfg, nil))

	if got := press(t, s, "ctrl+t"); got != ActionNone {
		t.Fatalf("old binding still active: %v", got)
	}
	if got := press(t, s, "ctrl+n"); got != ActionSplitHorizontal {
		t.Fatalf("ctrl+n resolved to %v", got)
	}
	if title := s.Snapshot().Windows[1].Title; title != "term-1" {
		t.Fatalf("expected title term-1, got %q", title)
	}
}

func TestCheckDetectsBrokenState(t *testing.T) {
	s := newTestSession(t)
	press(t, s, "ctrl+t")

	s.grid.Append(tiling.Vertical, 0, 7)
	err := s.Check()
	if !errors.Is(err, tiling.ErrInvariant) {
		t.Fatalf("expected invariant error, got %v", err)
	}
	if _, err := s.Layout(screen); !errors.Is(err, tiling.ErrInvariant) {
		t.Fatalf("expected Layout to fail fast, got %v", err)
	}

	s = newTestSession(t)
	press(t, s, "ctrl+t")
	_ = s.windows.SetSelected(1, true)
	if err := s.Check(); !errors.Is(err, tiling.ErrInvariant) {
		t.Fatalf("expected two-selected violation, got %v", err)
	}
}

func TestLogsCarrySessionID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewSession(OptionsFromConfig(config.DefaultConfig(), logger))

	press(t, s, "alt+t")
	press(t, s, "q")

	out := buf.String()
	if !strings.Contains(out, "session_id="+s.ID()) {
		t.Fatalf("log missing session id: %q", out)
	}
	if !strings.Contains(out, "window created") || !strings.Contains(out, "orientation=vertical") {
		t.Fatalf("log missing creation record: %q", out)
	}
	if !strings.Contains(out, "msg=quit") {
		t.Fatalf("log missing quit record: %q", out)
	}
}

func gridEqual(a, b tiling.Grid) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
