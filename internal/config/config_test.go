package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(data)+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.TickInterval() != 100*time.Millisecond {
		t.Fatalf("expected 100ms tick, got %v", cfg.TickInterval())
	}
	if got := FormatTitle(cfg.TitleFormat, 3); got != "3" {
		t.Fatalf("expected title %q, got %q", "3", got)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
	if res.Config.InitialTitle != "Desktop" {
		t.Fatalf("expected initial title Desktop, got %q", res.Config.InitialTitle)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "# empty")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Frontend != FrontendBubbletea {
		t.Fatalf("expected frontend %q, got %q", FrontendBubbletea, res.Config.Frontend)
	}
	if len(res.Files) != 1 {
		t.Fatalf("expected one loaded file, got %v", res.Files)
	}
}

func TestLoadFromPath_OverridesAndExplainSource(t *testing.T) {
	path := writeConfig(t, `
frontend: tcell
tick_interval_ms: 50
title_format: "term %d"
screen_padding:
  top: 1
keys:
  select_next: ["n"]
`)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Frontend != FrontendTcell {
		t.Fatalf("expected tcell frontend, got %q", cfg.Frontend)
	}
	if cfg.TickIntervalMS != 50 {
		t.Fatalf("expected tick 50, got %d", cfg.TickIntervalMS)
	}
	if got := FormatTitle(cfg.TitleFormat, 2); got != "term 2" {
		t.Fatalf("expected formatted title %q, got %q", "term 2", got)
	}
	if cfg.ScreenPadding.Top != 1 || cfg.ScreenPadding.Left != 0 {
		t.Fatalf("unexpected padding: %#v", cfg.ScreenPadding)
	}
	if len(cfg.Keys.SelectNext) != 1 || cfg.Keys.SelectNext[0] != "n" {
		t.Fatalf("expected select_next override, got %v", cfg.Keys.SelectNext)
	}
	if len(cfg.Keys.SelectPrev) != 2 {
		t.Fatalf("expected select_prev defaults kept, got %v", cfg.Keys.SelectPrev)
	}

	val, src, err := Explain(res, "screen_padding.top")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 1 {
		t.Fatalf("expected explain value 1, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 5 {
		t.Fatalf("expected file source at line 5, got %#v", src)
	}

	val, src, err = Explain(res, "initial_title")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "Desktop" || src.Kind != SourceDefault {
		t.Fatalf("expected default Desktop, got %#v from %#v", val, src)
	}

	if _, _, err := Explain(res, "theme.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, "unknown_key: 1")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), "config.yaml") {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := writeConfig(t, `
frontend: bubbletea
tick_interval_ms: 0
`)

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Path != "tick_interval_ms" {
		t.Fatalf("expected path tick_interval_ms, got %q", verr.Path)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected source line 2, got %d", verr.Source.Line)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected file:line:col prefix, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"frontend", func(c *Config) { c.Frontend = "gtk" }, "frontend"},
		{"tick", func(c *Config) { c.TickIntervalMS = -1 }, "tick_interval_ms"},
		{"title without verb", func(c *Config) { c.TitleFormat = "term" }, "title_format"},
		{"title with two verbs", func(c *Config) { c.TitleFormat = "%d-%d" }, "title_format"},
		{"title with string verb", func(c *Config) { c.TitleFormat = "%s %d" }, "title_format"},
		{"initial title", func(c *Config) { c.InitialTitle = "  " }, "initial_title"},
		{"padding", func(c *Config) { c.ScreenPadding.Left = -2 }, "screen_padding"},
		{"color", func(c *Config) { c.Theme.HelpColor = "" }, "theme.help_color"},
		{"empty keys", func(c *Config) { c.Keys.Quit = []string{} }, "keys.quit"},
		{"bad key", func(c *Config) { c.Keys.SelectNext = []string{"hyper+x"} }, "keys.select_next"},
		{"duplicate key", func(c *Config) { c.Keys.SelectNext = []string{"h"} }, "keys.select_next"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q (%v)", tt.path, verr.Path, err)
			}
		})
	}
}

func TestValidate_AllowsEscapedPercent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TitleFormat = "%d%%"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid title format, got %v", err)
	}
	if got := FormatTitle(cfg.TitleFormat, 7); got != "7%" {
		t.Fatalf("expected %q, got %q", "7%", got)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte("placeholder: hi\nshow_help: false\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Placeholder != "hi" || cfg.ShowHelp {
		t.Fatalf("unexpected config: %#v", cfg)
	}

	cfg, err = Parse(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if cfg.Placeholder != "Hello" {
		t.Fatalf("expected default placeholder, got %q", cfg.Placeholder)
	}
}

func TestGetLoggingConfig_Defaults(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	cfg := DefaultConfig()
	cfg.Logging = LoggingConfig{Enabled: true}
	got := cfg.GetLoggingConfig()
	if got.File != filepath.Join(td, "tilemux.log") {
		t.Fatalf("expected log file under runtime dir, got %q", got.File)
	}
	if got.MaxSizeMB != 10 || got.MaxFiles != 3 || got.Level != "info" {
		t.Fatalf("unexpected logging defaults: %#v", got)
	}
}

func TestDefaultConfigPath_UsesXDGConfigHome(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", td)

	got, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if got != filepath.Join(td, "tilemux", "config.yaml") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestControlSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	cfg := DefaultConfig()
	if !cfg.Control.Enabled {
		t.Fatalf("control socket should be enabled by default")
	}
	got, err := cfg.ControlSocketPath()
	if err != nil {
		t.Fatalf("ControlSocketPath() error: %v", err)
	}
	if want := filepath.Join(td, "tilemux.sock"); got != want {
		t.Fatalf("ControlSocketPath() = %q, want %q", got, want)
	}

	cfg, err = Parse([]byte("control:\n  enabled: false\n  socket: /tmp/x.sock\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Control.Enabled {
		t.Fatalf("control.enabled override ignored")
	}
	if got, _ := cfg.ControlSocketPath(); got != "/tmp/x.sock" {
		t.Fatalf("ControlSocketPath() = %q, want /tmp/x.sock", got)
	}
}
