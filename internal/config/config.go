package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/tilemux/internal/input"
	"github.com/1broseidon/tilemux/internal/runtimepath"
)

// Margins represents padding around the tiled area, in cells.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Frontend names the terminal library that drives the session.
type Frontend string

const (
	FrontendBubbletea Frontend = "bubbletea" // charmbracelet/bubbletea program (default).
	FrontendTcell     Frontend = "tcell"     // gdamore/tcell screen.
)

// Theme holds the colors used when drawing windows. Values are ANSI palette
// indexes ("15") or hex colors ("#ffffff").
type Theme struct {
	SelectedColor   string `yaml:"selected_color"`
	UnselectedColor string `yaml:"unselected_color"`
	HelpColor       string `yaml:"help_color"`
}

// Keys lists the key names bound to each action.
type Keys struct {
	Quit            []string `yaml:"quit"`
	SplitHorizontal []string `yaml:"split_horizontal"`
	SplitVertical   []string `yaml:"split_vertical"`
	SelectPrev      []string `yaml:"select_prev"`
	SelectNext      []string `yaml:"select_next"`
}

// LoggingConfig configures the session log file.
type LoggingConfig struct {
	// Enabled turns file logging on/off
	Enabled bool `yaml:"enabled"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: $XDG_RUNTIME_DIR/tilemux.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// ControlConfig configures the control socket of an interactive session.
type ControlConfig struct {
	Enabled bool `yaml:"enabled"`
	// Socket is the unix socket path (default: $XDG_RUNTIME_DIR/tilemux.sock)
	Socket string `yaml:"socket,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Frontend       Frontend      `yaml:"frontend"`
	TickIntervalMS int           `yaml:"tick_interval_ms"`
	TitleFormat    string        `yaml:"title_format"`
	InitialTitle   string        `yaml:"initial_title"`
	Placeholder    string        `yaml:"placeholder"`
	ShowHelp       bool          `yaml:"show_help"`
	Strict         bool          `yaml:"strict"`
	ScreenPadding  Margins       `yaml:"screen_padding"`
	Theme          Theme         `yaml:"theme"`
	Keys           Keys          `yaml:"keys"`
	Control        ControlConfig `yaml:"control"`
	Logging        LoggingConfig `yaml:"logging,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Frontend:       FrontendBubbletea,
		TickIntervalMS: 100,
		TitleFormat:    "%d",
		InitialTitle:   "Desktop",
		Placeholder:    "Hello",
		ShowHelp:       true,
		Strict:         true,
		Theme: Theme{
			SelectedColor:   "15",
			UnselectedColor: "8",
			HelpColor:       "241",
		},
		Keys: Keys{
			Quit:            []string{"esc", "q", "Q", "ctrl+c"},
			SplitHorizontal: []string{"ctrl+t"},
			SplitVertical:   []string{"alt+t", "alt+T"},
			SelectPrev:      []string{"h", "H"},
			SelectNext:      []string{"l", "L"},
		},
		Control: ControlConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Enabled:   false,
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

// TickInterval returns the liveness tick as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// FormatTitle renders the auto-title of the n-th window with a
// title_format string.
func FormatTitle(format string, n int) string {
	return fmt.Sprintf(format, n)
}

// ControlSocketPath returns the control socket path, defaulting to the
// runtime directory.
func (c *Config) ControlSocketPath() (string, error) {
	if c.Control.Socket != "" {
		return c.Control.Socket, nil
	}
	return runtimepath.SocketPath()
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		if path, err := runtimepath.LogPath(); err == nil {
			cfg.File = path
		} else {
			// Last resort fallback - use the temp dir
			cfg.File = filepath.Join(os.TempDir(), "tilemux.log")
		}
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Bindings returns the key lists in a fixed action order, keyed by YAML path.
func (k Keys) Bindings() []KeyBinding {
	return []KeyBinding{
		{Path: "keys.quit", Keys: k.Quit},
		{Path: "keys.split_horizontal", Keys: k.SplitHorizontal},
		{Path: "keys.split_vertical", Keys: k.SplitVertical},
		{Path: "keys.select_prev", Keys: k.SelectPrev},
		{Path: "keys.select_next", Keys: k.SelectNext},
	}
}

// KeyBinding is one action's key list together with its config path.
type KeyBinding struct {
	Path string
	Keys []string
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Frontend {
	case FrontendBubbletea, FrontendTcell:
	default:
		return &ValidationError{Path: "frontend", Err: fmt.Errorf("frontend must be one of: bubbletea, tcell")}
	}
	if c.TickIntervalMS <= 0 {
		return &ValidationError{Path: "tick_interval_ms", Err: fmt.Errorf("tick_interval_ms must be > 0")}
	}
	if err := validateTitleFormat(c.TitleFormat); err != nil {
		return &ValidationError{Path: "title_format", Err: err}
	}
	if strings.TrimSpace(c.InitialTitle) == "" {
		return &ValidationError{Path: "initial_title", Err: fmt.Errorf("initial_title is required")}
	}
	if c.ScreenPadding.Top < 0 || c.ScreenPadding.Bottom < 0 || c.ScreenPadding.Left < 0 || c.ScreenPadding.Right < 0 {
		return &ValidationError{Path: "screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}
	for path, color := range map[string]string{
		"theme.selected_color":   c.Theme.SelectedColor,
		"theme.unselected_color": c.Theme.UnselectedColor,
		"theme.help_color":       c.Theme.HelpColor,
	} {
		if strings.TrimSpace(color) == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("color must not be empty")}
		}
	}

	owner := make(map[string]string)
	for _, b := range c.Keys.Bindings() {
		if len(b.Keys) == 0 {
			return &ValidationError{Path: b.Path, Err: fmt.Errorf("at least one key is required")}
		}
		for _, name := range b.Keys {
			k, err := input.Parse(name)
			if err != nil {
				return &ValidationError{Path: b.Path, Err: err}
			}
			canonical := k.String()
			if prev, ok := owner[canonical]; ok && prev != b.Path {
				return &ValidationError{Path: b.Path, Err: fmt.Errorf("key %q is already bound by %s", name, prev)}
			}
			owner[canonical] = b.Path
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}

	return nil
}

func validateTitleFormat(format string) error {
	if strings.Count(format, "%d") != 1 {
		return fmt.Errorf("title_format must contain exactly one %%d")
	}
	if strings.Count(strings.ReplaceAll(format, "%%", ""), "%") != 1 {
		return fmt.Errorf("title_format may only use the %%d verb")
	}
	return nil
}
