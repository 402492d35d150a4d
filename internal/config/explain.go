package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	frontend
//	tick_interval_ms
//	title_format
//	screen_padding.top
//	theme.selected_color
//	keys.split_horizontal
//	logging.level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}
	child := func(fields map[string]any) (any, error) {
		if len(parts) == 1 {
			return fields, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		v, ok := fields[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "frontend":
		return leaf(string(cfg.Frontend))
	case "tick_interval_ms":
		return leaf(cfg.TickIntervalMS)
	case "title_format":
		return leaf(cfg.TitleFormat)
	case "initial_title":
		return leaf(cfg.InitialTitle)
	case "placeholder":
		return leaf(cfg.Placeholder)
	case "show_help":
		return leaf(cfg.ShowHelp)
	case "strict":
		return leaf(cfg.Strict)
	case "screen_padding":
		return child(map[string]any{
			"top":    cfg.ScreenPadding.Top,
			"bottom": cfg.ScreenPadding.Bottom,
			"left":   cfg.ScreenPadding.Left,
			"right":  cfg.ScreenPadding.Right,
		})
	case "theme":
		return child(map[string]any{
			"selected_color":   cfg.Theme.SelectedColor,
			"unselected_color": cfg.Theme.UnselectedColor,
			"help_color":       cfg.Theme.HelpColor,
		})
	case "keys":
		return child(map[string]any{
			"quit":             cfg.Keys.Quit,
			"split_horizontal": cfg.Keys.SplitHorizontal,
			"split_vertical":   cfg.Keys.SplitVertical,
			"select_prev":      cfg.Keys.SelectPrev,
			"select_next":      cfg.Keys.SelectNext,
		})
	case "control":
		return child(map[string]any{
			"enabled": cfg.Control.Enabled,
			"socket":  cfg.Control.Socket,
		})
	case "logging":
		return child(map[string]any{
			"enabled":     cfg.Logging.Enabled,
			"level":       cfg.Logging.Level,
			"file":        cfg.Logging.File,
			"max_size_mb": cfg.Logging.MaxSizeMB,
			"max_files":   cfg.Logging.MaxFiles,
		})
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
