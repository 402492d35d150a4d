package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tilemux/internal/config"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tilemux config validate [--path PATH]")
	fmt.Fprintln(w, "  tilemux config print [--path PATH] [--effective|--defaults]")
	fmt.Fprintln(w, "  tilemux config explain [--path PATH] <yaml.path>")
	fmt.Fprintln(w, "  tilemux config init [--path PATH] [--defaults] [--force]")
}

func runConfig(args []string) int {
	return configCommand(args, os.Stdout, os.Stderr)
}

func configCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/tilemux/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, "config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/tilemux/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
			for _, f := range res.Files {
				fmt.Fprintf(stdout, "# file: %s\n", f)
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprint(stdout, string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/tilemux/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}

		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}

		fmt.Fprintf(stdout, "path: %s\n", queryPath)
		fmt.Fprintf(stdout, "source: %s\n", formatSource(src))
		fmt.Fprintf(stdout, "value:\n%s", string(out))
		return 0

	case "init":
		return configInit(args[1:], stdout, stderr)

	default:
		fmt.Fprintf(stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func configInit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/tilemux/config.yaml)")
	defaults := fs.Bool("defaults", false, "Write the built-in defaults without prompting")
	force := fs.Bool("force", false, "Overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	target := *path
	if target == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		target = p
	}

	cfg := config.DefaultConfig()
	if !*defaults {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(stderr, "config init needs a terminal; use --defaults to write the built-in config")
			return 2
		}
		if err := runInitForm(cfg); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(stderr, "aborted")
				return 1
			}
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	if err := writeConfigFile(target, cfg, *force); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "config: wrote %s\n", target)
	return 0
}

// initAnswers holds the wizard fields as strings for the form widgets.
type initAnswers struct {
	Frontend     string
	TitleFormat  string
	InitialTitle string
	Placeholder  string
	TickInterval string
	ShowHelp     bool
}

func answersFrom(cfg *config.Config) initAnswers {
	return initAnswers{
		Frontend:     string(cfg.Frontend),
		TitleFormat:  cfg.TitleFormat,
		InitialTitle: cfg.InitialTitle,
		Placeholder:  cfg.Placeholder,
		TickInterval: strconv.Itoa(cfg.TickIntervalMS),
		ShowHelp:     cfg.ShowHelp,
	}
}

// apply copies the answers into cfg and validates the result.
func (a initAnswers) apply(cfg *config.Config) error {
	tick, err := strconv.Atoi(a.TickInterval)
	if err != nil {
		return fmt.Errorf("tick_interval_ms: %q is not a number", a.TickInterval)
	}
	cfg.Frontend = config.Frontend(a.Frontend)
	cfg.TitleFormat = a.TitleFormat
	cfg.InitialTitle = a.InitialTitle
	cfg.Placeholder = a.Placeholder
	cfg.TickIntervalMS = tick
	cfg.ShowHelp = a.ShowHelp
	return cfg.Validate()
}

// validateWith checks a single answer by applying it to a copy of cfg.
func validateWith(cfg *config.Config, set func(*config.Config, string)) func(string) error {
	return func(v string) error {
		trial := *cfg
		set(&trial, v)
		return trial.Validate()
	}
}

func runInitForm(cfg *config.Config) error {
	a := answersFrom(cfg)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("frontend").
				Title("Frontend").
				Description("Terminal library that draws the session").
				Options(
					huh.NewOption("bubbletea", string(config.FrontendBubbletea)),
					huh.NewOption("tcell", string(config.FrontendTcell)),
				).
				Value(&a.Frontend),
			huh.NewInput().
				Key("title_format").
				Title("Title format").
				Description("Format for new window titles; must contain one %d").
				Value(&a.TitleFormat).
				Validate(validateWith(cfg, func(c *config.Config, v string) { c.TitleFormat = v })),
			huh.NewInput().
				Key("initial_title").
				Title("Initial title").
				Description("Title of the first window").
				Value(&a.InitialTitle).
				Validate(validateWith(cfg, func(c *config.Config, v string) { c.InitialTitle = v })),
			huh.NewInput().
				Key("placeholder").
				Title("Placeholder").
				Description("Text drawn in the middle of every window").
				Value(&a.Placeholder),
			huh.NewInput().
				Key("tick_interval_ms").
				Title("Tick interval (ms)").
				Value(&a.TickInterval).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
			huh.NewConfirm().
				Key("show_help").
				Title("Show the key help line?").
				Value(&a.ShowHelp),
		),
	).WithWidth(72).WithShowHelp(true).WithShowErrors(true)

	if err := form.Run(); err != nil {
		return err
	}
	return a.apply(cfg)
}

// writeConfigFile marshals cfg to path, creating parent directories. An
// existing file is kept unless force is set.
func writeConfigFile(path string, cfg *config.Config, force bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
