package tui

import (
	"time"

	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/tilemux/internal/mux"
	"github.com/1broseidon/tilemux/internal/render"
)

type tickMsg time.Time

// callMsg runs a session call inside Update.
type callMsg struct {
	call func(*mux.Session)
}

// Model is the bubbletea model wrapping a session. Update mutates the
// session and re-resolves the layout; View only prints the last canvas.
type Model struct {
	session  *mux.Session
	renderer *render.Renderer
	tick     time.Duration

	// Terminal dimensions
	width  int
	height int

	canvas *render.Canvas
	err    error
}

// NewModel creates a model for s.
func NewModel(s *mux.Session, r *render.Renderer, tick time.Duration) Model {
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	return Model{session: s, renderer: r, tick: tick}
}

// Err returns the invariant violation that stopped the program, if any.
func (m Model) Err() error { return m.err }

// Session returns the wrapped session.
func (m Model) Session() *mux.Session { return m.session }

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.relayout()

	case tea.KeyMsg:
		k, ok := convertKey(msg)
		if !ok {
			return m, nil
		}
		if _, err := m.session.HandleKey(k); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if !m.session.Running() {
			return m, tea.Quit
		}
		return m.relayout()

	case callMsg:
		msg.call(m.session)
		if err := m.session.Verify(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if !m.session.Running() {
			return m, tea.Quit
		}
		return m.relayout()

	case tickMsg:
		return m, m.tickCmd()
	}

	return m, nil
}

func (m Model) relayout() (tea.Model, tea.Cmd) {
	if m.width == 0 || m.height == 0 {
		return m, nil
	}
	canvas, err := m.renderer.Render(m.session, m.width, m.height)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.canvas = canvas
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.canvas == nil {
		return ""
	}
	return m.canvas.String(m.renderer.Theme)
}
