// Package runtimepath locates the per-user directory holding the session
// log and the control socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	logName    = "tilemux.log"
	socketName = "tilemux.sock"
)

// Dir returns the runtime directory: $XDG_RUNTIME_DIR when set, else
// /run/user/<uid> when it exists, else /tmp/tilemux-runtime-<uid>, which
// is created with mode 0700.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	dir := fmt.Sprintf("/tmp/tilemux-runtime-%d", uid)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create runtime dir %s: %w", dir, err)
	}
	return dir, nil
}

// LogPath returns the default session log path.
func LogPath() (string, error) { return join(logName) }

// SocketPath returns the default control socket path.
func SocketPath() (string, error) { return join(socketName) }

func join(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
