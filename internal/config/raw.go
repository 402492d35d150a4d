package config

type RawMargins struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

type RawTheme struct {
	SelectedColor   *string `yaml:"selected_color"`
	UnselectedColor *string `yaml:"unselected_color"`
	HelpColor       *string `yaml:"help_color"`
}

// RawKeys uses nil slices for "not set"; an explicit empty list is kept so
// validation can reject it.
type RawKeys struct {
	Quit            []string `yaml:"quit"`
	SplitHorizontal []string `yaml:"split_horizontal"`
	SplitVertical   []string `yaml:"split_vertical"`
	SelectPrev      []string `yaml:"select_prev"`
	SelectNext      []string `yaml:"select_next"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawControlConfig struct {
	Enabled *bool   `yaml:"enabled"`
	Socket  *string `yaml:"socket"`
}

type RawConfig struct {
	Frontend       *Frontend         `yaml:"frontend"`
	TickIntervalMS *int              `yaml:"tick_interval_ms"`
	TitleFormat    *string           `yaml:"title_format"`
	InitialTitle   *string           `yaml:"initial_title"`
	Placeholder    *string           `yaml:"placeholder"`
	ShowHelp       *bool             `yaml:"show_help"`
	Strict         *bool             `yaml:"strict"`
	ScreenPadding  *RawMargins       `yaml:"screen_padding"`
	Theme          *RawTheme         `yaml:"theme"`
	Keys           *RawKeys          `yaml:"keys"`
	Control        *RawControlConfig `yaml:"control"`
	Logging        *RawLoggingConfig `yaml:"logging"`
}
