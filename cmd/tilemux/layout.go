package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/tilemux/internal/input"
	"github.com/1broseidon/tilemux/internal/logging"
	"github.com/1broseidon/tilemux/internal/mux"
	"github.com/1broseidon/tilemux/internal/render"
	"github.com/1broseidon/tilemux/internal/tiling"
)

type layoutWindow struct {
	Index    int         `json:"index"`
	Kind     string      `json:"kind"`
	Title    string      `json:"title"`
	Selected bool        `json:"selected"`
	Rect     tiling.Rect `json:"rect"`
}

type layoutReport struct {
	SessionID string         `json:"session_id"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Running   bool           `json:"running"`
	Actions   []string       `json:"actions"`
	Grid      tiling.Grid    `json:"grid"`
	Windows   []layoutWindow `json:"windows"`
	Lines     []string       `json:"lines,omitempty"`
}

func runLayout(args []string) int {
	return layoutCommand(args, os.Stdout, os.Stderr)
}

func layoutCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/tilemux/config.yaml)")
	size := fs.String("size", "80x24", "Screen size as WIDTHxHEIGHT")
	keys := fs.String("keys", "", "Comma separated keys to replay, e.g. ctrl+t,l,alt+t")
	jsonOut := fs.Bool("json", false, "Output JSON")
	draw := fs.Bool("render", false, "Also draw the screen as text")
	fullHelp := fs.Bool("full-help", false, "Draw every key binding group in the help rows")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tilemux layout [--size WxH] [--keys k1,k2,...] [--render] [--full-help] [--json] [--config PATH]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Replay keys against a fresh session without a terminal and print the")
		fmt.Fprintln(stderr, "resulting windows, view grid and rectangles.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	width, height, err := parseSize(*size)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	pressed, err := input.ParseList(*keys)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	s := mux.NewSession(mux.OptionsFromConfig(res.Config, logging.Discard()))
	actions := make([]string, 0, len(pressed))
	for _, k := range pressed {
		a, err := s.HandleKey(k)
		if err != nil {
			fmt.Fprintf(stderr, "key %s: %v\n", k, err)
			return 1
		}
		actions = append(actions, a.String())
	}

	renderer := render.NewRenderer(res.Config, s.KeyMap())
	renderer.FullHelp = *fullHelp
	layout, err := s.Layout(renderer.Area(width, height))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	snap := s.Snapshot()
	report := layoutReport{
		SessionID: snap.SessionID,
		Width:     width,
		Height:    height,
		Running:   snap.Running,
		Actions:   actions,
		Grid:      snap.Grid,
		Windows:   make([]layoutWindow, 0, len(layout)),
	}
	for i, r := range layout {
		w := snap.Windows[i]
		report.Windows = append(report.Windows, layoutWindow{
			Index:    i,
			Kind:     w.Kind.String(),
			Title:    w.Title,
			Selected: w.Selected,
			Rect:     r,
		})
	}
	if *draw {
		report.Lines = render.Draw(width, height, render.Frame{
			Windows:     snap.Windows,
			Layout:      layout,
			Placeholder: renderer.Placeholder,
			Help:        renderer.HelpLines(width),
		}).Lines()
	}

	if *jsonOut {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	printLayout(stdout, report)
	return 0
}

func printLayout(w io.Writer, r layoutReport) {
	fmt.Fprintf(w, "Screen: %dx%d\n", r.Width, r.Height)
	if !r.Running {
		fmt.Fprintln(w, "Session: quit")
	}
	if len(r.Grid) == 0 {
		fmt.Fprintln(w, "Grid: (empty)")
	} else {
		fmt.Fprintln(w, "Grid:")
		for i, sp := range r.Grid {
			fmt.Fprintf(w, "  %d. %s\n", i, sp)
		}
	}
	fmt.Fprintln(w, "Windows:")
	for _, win := range r.Windows {
		marker := " "
		if win.Selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d. %-12s %-9s x=%d y=%d w=%d h=%d\n",
			marker, win.Index, win.Title, win.Kind,
			win.Rect.X, win.Rect.Y, win.Rect.Width, win.Rect.Height)
	}
	for _, line := range r.Lines {
		fmt.Fprintln(w, line)
	}
}

// parseSize parses "WIDTHxHEIGHT". Both sides are bounded by
// render.MaxScreenDim.
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w < 1 {
		return 0, 0, fmt.Errorf("invalid width in size %q", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 1 {
		return 0, 0, fmt.Errorf("invalid height in size %q", s)
	}
	if err := render.CheckSize(w, h); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}
