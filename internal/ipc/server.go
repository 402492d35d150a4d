// Package ipc is the control socket of an interactive session: a unix socket
// speaking one JSON request and one JSON response per connection.
package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/tilemux/internal/input"
	"github.com/1broseidon/tilemux/internal/mux"
)

const defaultTimeout = 5 * time.Second

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	exec         mux.Executor
	logger       *slog.Logger
	startTime    time.Time
	timeout      time.Duration
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a server that runs every session access through exec.
func NewServer(socketPath string, exec mux.Executor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		socketPath: socketPath,
		exec:       exec,
		logger:     logger.With("component", "ipc"),
		startTime:  time.Now(),
		timeout:    defaultTimeout,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections. A stale socket file is
// replaced; a socket another session still answers on is an error.
func (s *Server) Start() error {
	if _, err := os.Stat(s.socketPath); err == nil {
		if conn, err := net.DialTimeout("unix", s.socketPath, time.Second); err == nil {
			conn.Close()
			return fmt.Errorf("another session is listening on %s", s.socketPath)
		}
		os.Remove(s.socketPath)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("control socket listening", "path", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout))

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("read failed", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("marshal response failed", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("write failed", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("request", "command", string(req.Command))
	switch req.Command {
	case CommandPing:
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandStatus:
		return s.handleStatus(ctx)
	case CommandKeys:
		return s.handleKeys(ctx, req.Payload)
	case CommandSelect:
		return s.handleSelect(ctx, req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleStatus(ctx context.Context) *Response {
	var status StatusData
	if err := s.exec(ctx, func(sess *mux.Session) {
		status = s.statusOf(sess)
	}); err != nil {
		return NewErrorResponse(fmt.Sprintf("Session unavailable: %v", err))
	}
	return okOrError(status)
}

func (s *Server) handleKeys(ctx context.Context, payload json.RawMessage) *Response {
	var p KeysPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	keys, err := input.ParseList(p.Keys)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if len(keys) == 0 {
		return NewErrorResponse("keys is required")
	}

	var (
		out    KeysData
		keyErr error
	)
	err = s.exec(ctx, func(sess *mux.Session) {
		out.Actions = make([]string, 0, len(keys))
		for _, k := range keys {
			action, err := sess.HandleKey(k)
			if err != nil {
				keyErr = fmt.Errorf("key %s: %w", k, err)
				break
			}
			out.Actions = append(out.Actions, action.String())
		}
		out.Status = s.statusOf(sess)
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Session unavailable: %v", err))
	}
	if keyErr != nil {
		return NewErrorResponse(keyErr.Error())
	}
	return okOrError(out)
}

func (s *Server) handleSelect(ctx context.Context, payload json.RawMessage) *Response {
	var p SelectPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}

	var (
		status    StatusData
		selectErr error
	)
	if err := s.exec(ctx, func(sess *mux.Session) {
		selectErr = sess.Select(p.Index)
		status = s.statusOf(sess)
	}); err != nil {
		return NewErrorResponse(fmt.Sprintf("Session unavailable: %v", err))
	}
	if selectErr != nil {
		return NewErrorResponse(selectErr.Error())
	}
	return okOrError(status)
}

func (s *Server) statusOf(sess *mux.Session) StatusData {
	snap := sess.Snapshot()
	status := StatusData{
		SessionID:     snap.SessionID,
		Running:       snap.Running,
		Selected:      snap.Selected,
		Windows:       make([]WindowData, 0, len(snap.Windows)),
		Grid:          make([]string, 0, len(snap.Grid)),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}
	for i, w := range snap.Windows {
		status.Windows = append(status.Windows, WindowData{
			Index:    i,
			Kind:     w.Kind.String(),
			Title:    w.Title,
			Selected: w.Selected,
		})
	}
	for _, sp := range snap.Grid {
		status.Grid = append(status.Grid, sp.String())
	}
	return status
}

func okOrError(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop closes the listener, waits for open connections and removes the
// socket file.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
