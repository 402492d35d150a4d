// Package mcp exposes a headless session over the Model Context Protocol so
// agents and scripts can drive and inspect the tiling state.
package mcp

import (
	"context"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilemux/internal/config"
	"github.com/1broseidon/tilemux/internal/mux"
	"github.com/1broseidon/tilemux/internal/render"
)

const (
	ServerName    = "tilemux"
	ServerVersion = "0.1.0"

	defaultWidth  = 80
	defaultHeight = 24
)

// Server is the MCP server wrapping one headless session.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	logger    *slog.Logger
	renderer  *render.Renderer

	mu      sync.Mutex
	session *mux.Session
}

// NewServer creates a server with a fresh session.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		config: cfg,
		logger: logger,
	}
	s.session = mux.NewSession(mux.OptionsFromConfig(cfg, logger))
	s.renderer = render.NewRenderer(cfg, s.session.KeyMap())

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "press_key",
		Description: "Feed key presses to the session as if typed: ctrl+t splits the selected window side by side, alt+t stacks it, h/l select the previous/next window, esc or q quits. Unbound keys are ignored. Returns the action taken for each key and the resulting state.",
	}, s.handlePressKey)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_window",
		Description: "Split the selected window in two. The new window is inserted right after the selected one and the selection does not move.",
	}, s.handleCreateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "select_window",
		Description: "Select the window at the given index.",
	}, s.handleSelectWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all windows in order with their kind, title and selection flag, plus the view grid.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_layout",
		Description: "Resolve the view grid against a screen of the given size and return one rectangle per window. Optionally returns the screen drawn as text.",
	}, s.handleGetLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reset_session",
		Description: "Discard the current session and start a new one with a single Desktop window.",
	}, s.handleResetSession)
}
