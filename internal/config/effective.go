package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw overrides on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Frontend != nil {
		cfg.Frontend = *raw.Frontend
	}
	if raw.TickIntervalMS != nil {
		cfg.TickIntervalMS = *raw.TickIntervalMS
	}
	if raw.TitleFormat != nil {
		cfg.TitleFormat = *raw.TitleFormat
	}
	if raw.InitialTitle != nil {
		cfg.InitialTitle = *raw.InitialTitle
	}
	if raw.Placeholder != nil {
		cfg.Placeholder = *raw.Placeholder
	}
	if raw.ShowHelp != nil {
		cfg.ShowHelp = *raw.ShowHelp
	}
	if raw.Strict != nil {
		cfg.Strict = *raw.Strict
	}
	if raw.ScreenPadding != nil {
		cfg.ScreenPadding.Top = derefInt(raw.ScreenPadding.Top, cfg.ScreenPadding.Top)
		cfg.ScreenPadding.Bottom = derefInt(raw.ScreenPadding.Bottom, cfg.ScreenPadding.Bottom)
		cfg.ScreenPadding.Left = derefInt(raw.ScreenPadding.Left, cfg.ScreenPadding.Left)
		cfg.ScreenPadding.Right = derefInt(raw.ScreenPadding.Right, cfg.ScreenPadding.Right)
	}
	if raw.Theme != nil {
		cfg.Theme.SelectedColor = derefString(raw.Theme.SelectedColor, cfg.Theme.SelectedColor)
		cfg.Theme.UnselectedColor = derefString(raw.Theme.UnselectedColor, cfg.Theme.UnselectedColor)
		cfg.Theme.HelpColor = derefString(raw.Theme.HelpColor, cfg.Theme.HelpColor)
	}
	if raw.Keys != nil {
		cfg.Keys.Quit = overrideKeys(raw.Keys.Quit, cfg.Keys.Quit)
		cfg.Keys.SplitHorizontal = overrideKeys(raw.Keys.SplitHorizontal, cfg.Keys.SplitHorizontal)
		cfg.Keys.SplitVertical = overrideKeys(raw.Keys.SplitVertical, cfg.Keys.SplitVertical)
		cfg.Keys.SelectPrev = overrideKeys(raw.Keys.SelectPrev, cfg.Keys.SelectPrev)
		cfg.Keys.SelectNext = overrideKeys(raw.Keys.SelectNext, cfg.Keys.SelectNext)
	}
	if raw.Control != nil {
		if raw.Control.Enabled != nil {
			cfg.Control.Enabled = *raw.Control.Enabled
		}
		cfg.Control.Socket = derefString(raw.Control.Socket, cfg.Control.Socket)
	}
	if raw.Logging != nil {
		if raw.Logging.Enabled != nil {
			cfg.Logging.Enabled = *raw.Logging.Enabled
		}
		cfg.Logging.Level = derefString(raw.Logging.Level, cfg.Logging.Level)
		cfg.Logging.File = derefString(raw.Logging.File, cfg.Logging.File)
		cfg.Logging.MaxSizeMB = derefInt(raw.Logging.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefInt(raw.Logging.MaxFiles, cfg.Logging.MaxFiles)
	}

	return cfg
}

func overrideKeys(overlay []string, def []string) []string {
	if overlay == nil {
		return def
	}
	out := make([]string, len(overlay))
	copy(out, overlay)
	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
