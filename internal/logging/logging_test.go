package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/tilemux/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_DisabledDiscards(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	logger.Info("dropped")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestNew_WritesToFileWithLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tilemux.log")
	logger, closer, err := New(config.LoggingConfig{
		Enabled:   true,
		Level:     "warn",
		File:      path,
		MaxSizeMB: 1,
		MaxFiles:  2,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("window created", "index", 1)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "window created") || !strings.Contains(out, "index=1") {
		t.Fatalf("missing warn record: %q", out)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("log file perm = %o, want 600", perm)
	}
}

func TestRotatingFile_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilemux.log")
	f, err := OpenRotatingFile(path, 1, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile() error: %v", err)
	}
	// Force a tiny limit so each write after the first rotates.
	f.maxBytes = 4

	for i := 0; i < 4; i++ {
		if _, err := fmt.Fprintf(f, "line%d\n", i); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	want := map[string]string{
		path:        "line3\n",
		path + ".1": "line2\n",
		path + ".2": "line1\n",
	}
	for p, content := range want {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if !bytes.Equal(data, []byte(content)) {
			t.Fatalf("%s = %q, want %q", p, data, content)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected no third rotated file, stat err = %v", err)
	}
}

func TestRotatingFile_FailedRotationKeepsWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilemux.log")
	// A non-empty directory where the rotated file should go makes the
	// rename fail.
	if err := os.MkdirAll(filepath.Join(path+".1", "keep"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := OpenRotatingFile(path, 1, 1)
	if err != nil {
		t.Fatalf("OpenRotatingFile() error: %v", err)
	}
	f.maxBytes = 4

	for i := 0; i < 3; i++ {
		if _, err := fmt.Fprintf(f, "line%d\n", i); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if want := "line0\nline1\nline2\n"; string(data) != want {
		t.Fatalf("%s = %q, want %q", path, data, want)
	}
}

func TestRotatingFile_WriteAfterClose(t *testing.T) {
	f, err := OpenRotatingFile(filepath.Join(t.TempDir(), "x.log"), 1, 1)
	if err != nil {
		t.Fatalf("OpenRotatingFile() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, err := f.Write([]byte("late")); err == nil {
		t.Fatalf("expected write after close to fail")
	}
}
