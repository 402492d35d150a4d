package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/1broseidon/tilemux/internal/config"
	"github.com/1broseidon/tilemux/internal/ipc"
	"github.com/1broseidon/tilemux/internal/logging"
	"github.com/1broseidon/tilemux/internal/mux"
	"github.com/1broseidon/tilemux/internal/screen"
	"github.com/1broseidon/tilemux/internal/tiling"
	"github.com/1broseidon/tilemux/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(runSession(nil))
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runSession(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "ctl":
		os.Exit(runCtl(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tilemux [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start an interactive session (default)")
	fmt.Fprintln(w, "  layout              Replay keys headlessly and print the layout")
	fmt.Fprintln(w, "  ctl                 Control a running session over its socket")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config init         Write a starter config file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Session keys (defaults):")
	fmt.Fprintln(w, "  Ctrl+T              Split the selected window side by side")
	fmt.Fprintln(w, "  Alt+T               Split the selected window top/bottom")
	fmt.Fprintln(w, "  h/H, l/L            Select previous/next window")
	fmt.Fprintln(w, "  Esc, q/Q, Ctrl+C    Quit")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tilemux <command> --help' for command-specific options.")
}

// loadConfig loads the config from path, or from the default location when
// path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

// openLogger builds the session logger. A log file that cannot be opened
// is reported and logging continues disabled.
func openLogger(cfg *config.Config) (*slog.Logger, func()) {
	logger, closer, err := logging.New(cfg.GetLoggingConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
		return logging.Discard(), func() {}
	}
	return logger, func() { _ = closer.Close() }
}

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// controlSocket starts the session's control socket once the frontend is
// ready. Failing to listen only disables remote control.
func controlSocket(cfg *config.Config, logger *slog.Logger) mux.Controller {
	return func(exec mux.Executor) func() {
		path, err := cfg.ControlSocketPath()
		if err != nil {
			logger.Warn("control socket disabled", "error", err)
			return func() {}
		}
		srv := ipc.NewServer(path, exec, logger)
		if err := srv.Start(); err != nil {
			logger.Warn("control socket disabled", "error", err)
			return func() {}
		}
		return srv.Stop
	}
}

func runSession(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/tilemux/config.yaml)")
	frontend := fs.String("frontend", "", "Terminal frontend: bubbletea or tcell (default: from config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilemux run [--config PATH] [--frontend bubbletea|tcell]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start an interactive tiling session in the current terminal.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *frontend != "" {
		cfg.Frontend = config.Frontend(*frontend)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "tilemux requires an interactive terminal (stdin/stdout must be TTYs)")
		return 1
	}

	logger, closeLog := openLogger(cfg)
	defer closeLog()

	ctx, cancel := signalContext()
	defer cancel()

	var control mux.Controller
	if cfg.Control.Enabled {
		control = controlSocket(cfg, logger)
	}

	logger.Info("session starting", "frontend", string(cfg.Frontend), "config", res.Files)
	switch cfg.Frontend {
	case config.FrontendTcell:
		err = screen.Run(ctx, cfg, logger, control)
	default:
		err = tui.Run(ctx, cfg, logger, control)
	}

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return 0
	case errors.Is(err, tiling.ErrInvariant):
		logger.Error("session aborted", "error", err)
		fmt.Fprintf(os.Stderr, "tilemux: internal error: %v\n", err)
		return 1
	default:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}
