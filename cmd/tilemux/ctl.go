package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/tilemux/internal/ipc"
)

func printCtlUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tilemux ctl [--socket PATH] [--json] <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  ping              Check that a session is listening")
	fmt.Fprintln(w, "  status            Show windows, selection and view grid")
	fmt.Fprintln(w, "  keys <k1,k2,...>  Press keys in the running session")
	fmt.Fprintln(w, "  select <index>    Select a window")
}

func runCtl(args []string) int {
	return ctlCommand(args, os.Stdout, os.Stderr)
}

func ctlCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	socket := fs.String("socket", "", "Control socket path (default: from config)")
	jsonOut := fs.Bool("json", false, "Output JSON")
	fs.Usage = func() { printCtlUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		printCtlUsage(stderr)
		return 2
	}

	path := *socket
	if path == "" {
		res, err := loadConfig("")
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if path, err = res.Config.ControlSocketPath(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	client := ipc.NewClient(path)

	var (
		out interface{}
		err error
	)
	switch fs.Arg(0) {
	case "ping":
		if err = client.Ping(); err == nil {
			fmt.Fprintln(stdout, "pong")
			return 0
		}
	case "status":
		out, err = client.Status()
	case "keys":
		if fs.NArg() < 2 {
			fmt.Fprintln(stderr, "keys requires <k1,k2,...>")
			return 2
		}
		out, err = client.Keys(strings.Join(fs.Args()[1:], ","))
	case "select":
		if fs.NArg() < 2 {
			fmt.Fprintln(stderr, "select requires <index>")
			return 2
		}
		idx, convErr := strconv.Atoi(fs.Arg(1))
		if convErr != nil {
			fmt.Fprintf(stderr, "invalid index %q\n", fs.Arg(1))
			return 2
		}
		out, err = client.Select(idx)
	default:
		fmt.Fprintf(stderr, "Unknown ctl command: %s\n\n", fs.Arg(0))
		printCtlUsage(stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *jsonOut {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	switch v := out.(type) {
	case *ipc.KeysData:
		fmt.Fprintf(stdout, "Actions: %s\n", strings.Join(v.Actions, ", "))
		printStatus(stdout, &v.Status)
	case *ipc.StatusData:
		printStatus(stdout, v)
	}
	return 0
}

func printStatus(w io.Writer, st *ipc.StatusData) {
	state := "running"
	if !st.Running {
		state = "quit"
	}
	fmt.Fprintf(w, "Session: %s (%s)\n", st.SessionID, state)
	if len(st.Grid) == 0 {
		fmt.Fprintln(w, "Grid: (empty)")
	} else {
		fmt.Fprintf(w, "Grid: %s\n", strings.Join(st.Grid, " "))
	}
	fmt.Fprintln(w, "Windows:")
	for _, win := range st.Windows {
		marker := " "
		if win.Selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d. %-12s %s\n", marker, win.Index, win.Title, win.Kind)
	}
}
