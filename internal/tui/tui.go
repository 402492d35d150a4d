// Package tui is the bubbletea frontend.
package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/tilemux/internal/config"
	"github.com/1broseidon/tilemux/internal/mux"
	"github.com/1broseidon/tilemux/internal/render"
)

// Executor returns a mux.Executor that runs calls inside p's Update.
func Executor(p *tea.Program) mux.Executor {
	return func(ctx context.Context, fn func(*mux.Session)) error {
		return mux.CallAndWait(ctx, func(ev mux.Event) error {
			p.Send(callMsg{call: ev.Call})
			return nil
		}, fn)
	}
}

// Run starts a session in the alternate screen and blocks until it quits.
// An invariant violation inside the session is returned. A non-nil control
// is started before the program runs.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, control mux.Controller) error {
	s := mux.NewSession(mux.OptionsFromConfig(cfg, logger))
	m := NewModel(s, render.NewRenderer(cfg, s.KeyMap()), cfg.TickInterval())

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if control != nil {
		stop := control(Executor(p))
		defer stop()
	}
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
