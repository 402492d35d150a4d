package mcp

import "github.com/1broseidon/tilemux/internal/tiling"

// WindowInfo describes one window.
type WindowInfo struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Selected bool   `json:"selected"`
}

// SplitInfo describes one entry of the view grid.
type SplitInfo struct {
	Orientation string `json:"orientation"`
	A           int    `json:"a"`
	B           int    `json:"b"`
}

// SessionState is the session summary most tools return.
type SessionState struct {
	SessionID string       `json:"session_id"`
	Running   bool         `json:"running"`
	Selected  int          `json:"selected"`
	Windows   []WindowInfo `json:"windows"`
	Grid      []SplitInfo  `json:"grid"`
}

// PressKeyInput is the input for the press_key tool.
type PressKeyInput struct {
	Keys string `json:"keys" jsonschema:"required,Comma separated key names applied in order, e.g. ctrl+t,l,alt+t. Names follow bubbletea: ctrl+t, alt+T, esc, q."`
}

// PressKeyOutput is the output for the press_key tool.
type PressKeyOutput struct {
	Actions []string     `json:"actions"`
	State   SessionState `json:"state"`
}

// CreateWindowInput is the input for the create_window tool.
type CreateWindowInput struct {
	Orientation string `json:"orientation,omitempty" jsonschema:"horizontal (side by side, default) or vertical (stacked)"`
}

// CreateWindowOutput is the output for the create_window tool.
type CreateWindowOutput struct {
	Index int          `json:"index"`
	State SessionState `json:"state"`
}

// SelectWindowInput is the input for the select_window tool.
type SelectWindowInput struct {
	Index int `json:"index" jsonschema:"required,Index of the window to select"`
}

// ListWindowsInput is the input for list_windows and reset_session.
type ListWindowsInput struct{}

// GetLayoutInput is the input for the get_layout tool.
type GetLayoutInput struct {
	Width  int  `json:"width,omitempty" jsonschema:"Screen width in cells (default: 80)"`
	Height int  `json:"height,omitempty" jsonschema:"Screen height in cells (default: 24)"`
	Render bool `json:"render,omitempty" jsonschema:"When true, also return the screen drawn as plain text lines"`
}

// WindowRect pairs a window with its resolved rectangle.
type WindowRect struct {
	Index int         `json:"index"`
	Title string      `json:"title"`
	Rect  tiling.Rect `json:"rect"`
}

// GetLayoutOutput is the output for the get_layout tool.
type GetLayoutOutput struct {
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Windows []WindowRect `json:"windows"`
	Lines   []string     `json:"lines,omitempty"`
}
