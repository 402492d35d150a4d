package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing   CommandType = "PING"
	CommandStatus CommandType = "STATUS"
	CommandKeys   CommandType = "KEYS"
	CommandSelect CommandType = "SELECT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WindowData describes one window of the session.
type WindowData struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Selected bool   `json:"selected"`
}

// StatusData represents the data returned by STATUS
type StatusData struct {
	SessionID     string       `json:"session_id"`
	Running       bool         `json:"running"`
	Selected      int          `json:"selected"`
	Windows       []WindowData `json:"windows"`
	Grid          []string     `json:"grid"`
	UptimeSeconds int64        `json:"uptime_seconds"`
}

// KeysPayload represents the payload for the KEYS command
type KeysPayload struct {
	Keys string `json:"keys"` // comma separated key names
}

// KeysData represents the data returned by KEYS
type KeysData struct {
	Actions []string   `json:"actions"`
	Status  StatusData `json:"status"`
}

// SelectPayload represents the payload for the SELECT command
type SelectPayload struct {
	Index int `json:"index"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
