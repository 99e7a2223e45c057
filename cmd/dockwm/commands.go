package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/1broseidon/dockwm/internal/ipc"
)

// parseFlags parses args with fs and reports the exit code to use when
// parsing stops the command.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dockwm status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:    %v\n", status.DaemonRunning)
	fmt.Printf("current_workspace: %s\n", status.CurrentWorkspace)
	fmt.Printf("monitors:          %d\n", status.Monitors)
	fmt.Printf("workspaces:        %d\n", status.Workspaces)
	fmt.Printf("windows:           %d\n", status.Windows)
	fmt.Printf("taskbar_shown:     %v\n", status.TaskbarShown)
	fmt.Printf("uptime_seconds:    %d\n", status.UptimeSeconds)
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dockwm monitors")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List logical monitors, their work areas and shown workspaces.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	writeMonitors(os.Stdout, data.Monitors)
	return 0
}

func writeMonitors(w io.Writer, monitors []ipc.MonitorInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tBOUNDS\tWORK AREA\tDISPLAYS\tWORKSPACE")
	for _, m := range monitors {
		index := strconv.Itoa(m.Index)
		if m.Primary {
			index += "*"
		}
		fmt.Fprintf(tw, "%s\t%dx%d+%d+%d\t%dx%d+%d+%d\t%d\t%s\n",
			index,
			m.Width, m.Height, m.X, m.Y,
			m.WorkWidth, m.WorkHeight, m.WorkX, m.WorkY,
			m.Displays, m.Workspace)
	}
	tw.Flush()
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dockwm reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Reload the configuration file in the running daemon.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printWorkspaceUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dockwm workspace list [--visible]")
	fmt.Fprintln(w, "  dockwm workspace switch <name>")
	fmt.Fprintln(w, "  dockwm workspace layout [--workspace NAME] <layout>")
	fmt.Fprintln(w, "  dockwm workspace taskbar [--workspace NAME]")
	fmt.Fprintln(w, "  dockwm workspace move <name> <monitor>")
}

func runWorkspace(args []string) int {
	if len(args) == 0 {
		printWorkspaceUsage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("workspace list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		visible := fs.Bool("visible", false, "Only list workspaces shown on a monitor")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		data, err := client.ListWorkspaces()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		writeWorkspaces(os.Stdout, data.Workspaces, *visible, nameColumnWidth())
		return 0

	case "switch":
		fs := flag.NewFlagSet("workspace switch", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "switch requires <name>")
			return 2
		}
		return report(client.SwitchWorkspace(fs.Arg(0)))

	case "layout":
		fs := flag.NewFlagSet("workspace layout", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		ws := fs.String("workspace", "", "Workspace name (default: current workspace)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "layout requires <layout>")
			return 2
		}
		return report(client.ChangeLayout(*ws, fs.Arg(0)))

	case "taskbar":
		fs := flag.NewFlagSet("workspace taskbar", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		ws := fs.String("workspace", "", "Workspace name (default: current workspace)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		return report(client.ToggleTaskbar(*ws))

	case "move":
		fs := flag.NewFlagSet("workspace move", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 2 {
			fmt.Fprintln(os.Stderr, "move requires <name> <monitor>")
			return 2
		}
		index, err := strconv.Atoi(fs.Arg(1))
		if err != nil || index < 0 {
			fmt.Fprintf(os.Stderr, "invalid monitor index %q\n", fs.Arg(1))
			return 2
		}
		return report(client.MoveWorkspace(fs.Arg(0), index))

	case "help", "-h", "--help":
		printWorkspaceUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown workspace command: %s\n\n", args[0])
		printWorkspaceUsage(os.Stderr)
		return 2
	}
}

// nameColumnWidth caps the workspace name column to a third of the terminal.
// Zero means no cap.
func nameColumnWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 0
	}
	return max(width/3, 8)
}

func writeWorkspaces(w io.Writer, workspaces []ipc.WorkspaceInfo, visibleOnly bool, nameWidth int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tMONITOR\tLAYOUT\tWINDOWS\tTASKBAR")
	for _, ws := range workspaces {
		if visibleOnly && !ws.Visible {
			continue
		}
		mark := ""
		switch {
		case ws.Current:
			mark = "*"
		case ws.Visible:
			mark = "+"
		}
		taskbar := "hidden"
		if ws.ShowTaskbar {
			taskbar = "shown"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s %s\t%d\t%s\n",
			mark, truncate(ws.Name, nameWidth), ws.Monitor, ws.Symbol, ws.Layout, ws.Windows, taskbar)
	}
	tw.Flush()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dockwm window shift [--id ID] [-n N] <forward|backward|main>")
	fmt.Fprintln(w, "  dockwm window float [--id ID]")
	fmt.Fprintln(w, "  dockwm window titlebar [--id ID]")
	fmt.Fprintln(w, "  dockwm window border [--id ID]")
	fmt.Fprintln(w, "  dockwm window menu [--id ID]")
	fmt.Fprintln(w, "  dockwm window taskbar [--id ID]")
	fmt.Fprintln(w, "  dockwm window remove --id ID <workspace>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Without --id the active window of the current workspace is used.")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()
	fs := flag.NewFlagSet("window "+args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	idFlag := fs.String("id", "", "X11 window id, decimal or 0x-prefixed hex")

	switch args[0] {
	case "shift":
		positions := fs.Int("n", 1, "Positions to move for forward and backward")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "shift requires <forward|backward|main>")
			return 2
		}
		id, err := parseWindowID(*idFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		return report(client.ShiftWindow(id, fs.Arg(0), *positions))

	case "remove":
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "remove requires <workspace>")
			return 2
		}
		id, err := parseWindowID(*idFlag)
		if err != nil || id == 0 {
			fmt.Fprintln(os.Stderr, "remove requires a valid --id")
			return 2
		}
		return report(client.RemoveWindow(id, fs.Arg(0)))

	case "float", "titlebar", "border", "menu", "taskbar":
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		id, err := parseWindowID(*idFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		toggle := map[string]func(uint32) error{
			"float":    client.ToggleFloating,
			"titlebar": client.ToggleTitlebar,
			"border":   client.ToggleBorder,
			"menu":     client.ToggleMenu,
			"taskbar":  client.ToggleTaskbarEntry,
		}[args[0]]
		return report(toggle(id))

	case "help", "-h", "--help":
		printWindowUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

// parseWindowID accepts decimal or 0x-prefixed hex, as printed by xwininfo.
// An empty value is zero.
func parseWindowID(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(id), nil
}

func report(err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
