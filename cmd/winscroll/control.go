package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/ipc"
	"github.com/fjtughy/winscroll/internal/snap"
)

// parseOnOff accepts on/off and the usual boolean spellings.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1", "enable":
		return true, nil
	case "off", "false", "no", "0", "disable":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

// newFlagSet builds a subcommand flag set whose usage prints usage and
// description.
func newFlagSet(name, usage, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, description)
	}
	return fs
}

// parseFlags returns -1 when parsing succeeded, otherwise the exit code.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	return -1
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "winscroll status [--json]", "Show daemon status via IPC.")
	asJSON := fs.Bool("json", false, "Print the raw status as JSON")
	if code := parseFlags(fs, args); code >= 0 {
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

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	fmt.Printf("daemon_running:  %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	fmt.Printf("window_snapping: %v (hotkeys %s)\n", status.WindowSnapping, status.HotkeyState)
	if len(status.InertZones) > 0 {
		fmt.Printf("inert_zones:     %s\n", strings.Join(status.InertZones, ", "))
	}
	r := status.CaptureRegion
	fmt.Printf("cursor_capture:  %v (x=%d y=%d w=%d h=%d)\n", status.CaptureEnabled, r.X, r.Y, r.Width, r.Height)
	fmt.Printf("grid:            %dx%d\n", status.Grid.Columns, status.Grid.Rows)
	if status.Cursor != nil {
		fmt.Printf("cursor:          %d,%d %s\n", status.Cursor.X, status.Cursor.Y, status.Cursor.Display)
	}
	if len(status.LastApplied) > 0 {
		zones := make([]string, 0, len(status.LastApplied))
		for z := range status.LastApplied {
			zones = append(zones, z)
		}
		sort.Strings(zones)
		for _, z := range zones {
			fmt.Printf("last_applied:    %s %s\n", z, status.LastApplied[z].Rect())
		}
	}
	if status.ConfigPath != "" {
		fmt.Printf("settings:        %s\n", status.ConfigPath)
	}
	return 0
}

func runSnap(args []string) int {
	fs := newFlagSet("snap", "winscroll snap <zone>",
		"Snap the foreground window. Zones: full_left, upper_right, lower_right, full_right.")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	zone, err := snap.ParseZone(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	result, err := ipc.NewClient().Snap(zone)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	suffix := ""
	if result.Alternate {
		suffix = " (alternate)"
	}
	fmt.Printf("%s: window 0x%x -> %s%s\n", result.Zone, result.Window, result.Target.Rect(), suffix)
	return 0
}

func runSnapping(args []string) int {
	fs := newFlagSet("snapping", "winscroll snapping on|off", "Register or release the Ctrl+Alt+Arrow hotkeys. The setting is saved.")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	enabled, err := parseOnOff(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	if err := client.SetSnapping(enabled); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if status, err := client.GetStatus(); err == nil && len(status.InertZones) > 0 {
		fmt.Fprintf(os.Stderr, "warning: hotkeys held by another program: %s\n", strings.Join(status.InertZones, ", "))
	}
	fmt.Printf("window_snapping: %v\n", enabled)
	return 0
}

func printCaptureUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  winscroll capture on|off")
	fmt.Fprintln(os.Stderr, "  winscroll capture set X Y WIDTH HEIGHT   (WIDTH/HEIGHT are the right/bottom edges)")
}

func runCapture(args []string) int {
	if len(args) == 0 {
		printCaptureUsage()
		return 2
	}
	switch args[0] {
	case "help", "-h", "--help":
		printCaptureUsage()
		return 0
	case "set":
		region, err := parseRegion(args[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			printCaptureUsage()
			return 2
		}
		applied, err := ipc.NewClient().SetCaptureRegion(region)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("capture_region: x=%d y=%d w=%d h=%d\n", applied.X, applied.Y, applied.Width, applied.Height)
		return 0
	}

	if len(args) != 1 {
		printCaptureUsage()
		return 2
	}
	enabled, err := parseOnOff(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printCaptureUsage()
		return 2
	}
	if err := ipc.NewClient().SetCapture(enabled); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("cursor_capture: %v\n", enabled)
	return 0
}

func parseRegion(args []string) (capture.Region, error) {
	if len(args) != 4 {
		return capture.Region{}, fmt.Errorf("capture set needs X Y WIDTH HEIGHT")
	}
	var v [4]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return capture.Region{}, fmt.Errorf("invalid number %q", a)
		}
		v[i] = n
	}
	return capture.Region{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func runShow(args []string) int {
	fs := newFlagSet("show", "winscroll show", "Restore and raise the daemon's window.")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if err := ipc.NewClient().Show(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runQuit(args []string) int {
	fs := newFlagSet("quit", "winscroll quit", "Release the cursor and hotkeys, save settings and stop the daemon.")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if err := ipc.NewClient().Quit(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("daemon stopping")
	return 0
}
