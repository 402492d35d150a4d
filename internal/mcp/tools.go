package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilemux/internal/input"
	"github.com/1broseidon/tilemux/internal/mux"
	"github.com/1broseidon/tilemux/internal/render"
	"github.com/1broseidon/tilemux/internal/tiling"
)

func (s *Server) handlePressKey(_ context.Context, _ *mcpsdk.CallToolRequest, args PressKeyInput) (*mcpsdk.CallToolResult, PressKeyOutput, error) {
	keys, err := input.ParseList(args.Keys)
	if err != nil {
		return nil, PressKeyOutput{}, err
	}
	if len(keys) == 0 {
		return nil, PressKeyOutput{}, fmt.Errorf("keys is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	actions := make([]string, 0, len(keys))
	for _, k := range keys {
		action, err := s.session.HandleKey(k)
		if err != nil {
			return nil, PressKeyOutput{}, fmt.Errorf("key %s: %w", k, err)
		}
		actions = append(actions, action.String())
	}

	return nil, PressKeyOutput{
		Actions: actions,
		State:   stateOf(s.session),
	}, nil
}

func (s *Server) handleCreateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateWindowInput) (*mcpsdk.CallToolResult, CreateWindowOutput, error) {
	o := tiling.Horizontal
	if args.Orientation != "" {
		var err error
		if o, err = tiling.ParseOrientation(args.Orientation); err != nil {
			return nil, CreateWindowOutput{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Running() {
		return nil, CreateWindowOutput{}, errSessionQuit
	}
	idx, err := s.session.CreateWindow(o)
	if err != nil {
		return nil, CreateWindowOutput{}, err
	}
	return nil, CreateWindowOutput{Index: idx, State: stateOf(s.session)}, nil
}

func (s *Server) handleSelectWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args SelectWindowInput) (*mcpsdk.CallToolResult, SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Running() {
		return nil, SessionState{}, errSessionQuit
	}
	if err := s.session.Select(args.Index); err != nil {
		return nil, SessionState{}, err
	}
	return nil, stateOf(s.session), nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return nil, stateOf(s.session), nil
}

func (s *Server) handleGetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args GetLayoutInput) (*mcpsdk.CallToolResult, GetLayoutOutput, error) {
	w, h := args.Width, args.Height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	if err := render.CheckSize(w, h); err != nil {
		return nil, GetLayoutOutput{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	area := s.renderer.Area(w, h)
	layout, err := s.session.Layout(area)
	if err != nil {
		return nil, GetLayoutOutput{}, err
	}

	snap := s.session.Snapshot()
	out := GetLayoutOutput{
		Width:   w,
		Height:  h,
		Windows: make([]WindowRect, 0, len(layout)),
	}
	for i, r := range layout {
		out.Windows = append(out.Windows, WindowRect{Index: i, Title: snap.Windows[i].Title, Rect: r})
	}
	if args.Render {
		out.Lines = render.Draw(w, h, render.Frame{
			Windows:     snap.Windows,
			Layout:      layout,
			Placeholder: s.renderer.Placeholder,
			Help:        s.renderer.HelpLines(w),
		}).Lines()
	}
	return nil, out, nil
}

func (s *Server) handleResetSession(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = mux.NewSession(mux.OptionsFromConfig(s.config, s.logger))
	return nil, stateOf(s.session), nil
}

var errSessionQuit = errors.New("session has quit; call reset_session to start a new one")

func stateOf(sess *mux.Session) SessionState {
	snap := sess.Snapshot()
	st := SessionState{
		SessionID: snap.SessionID,
		Running:   snap.Running,
		Selected:  snap.Selected,
		Windows:   make([]WindowInfo, 0, len(snap.Windows)),
		Grid:      make([]SplitInfo, 0, len(snap.Grid)),
	}
	for i, w := range snap.Windows {
		st.Windows = append(st.Windows, WindowInfo{
			Index:    i,
			Kind:     w.Kind.String(),
			Title:    w.Title,
			Selected: w.Selected,
		})
	}
	for _, sp := range snap.Grid {
		st.Grid = append(st.Grid, SplitInfo{
			Orientation: sp.Orientation.String(),
			A:           sp.A,
			B:           sp.B,
		})
	}
	return st
}
