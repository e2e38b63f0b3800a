package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	iofs "io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fjtughy/winscroll/internal/config"
	"github.com/fjtughy/winscroll/internal/daemon"
	"github.com/fjtughy/winscroll/internal/ipc"
	"github.com/fjtughy/winscroll/internal/platform"
	"github.com/fjtughy/winscroll/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(args))
	case "status":
		os.Exit(runStatus(args))
	case "snap":
		os.Exit(runSnap(args))
	case "snapping":
		os.Exit(runSnapping(args))
	case "capture":
		os.Exit(runCapture(args))
	case "show":
		os.Exit(runShow(args))
	case "quit":
		os.Exit(runQuit(args))
	case "startup":
		os.Exit(runStartup(args))
	case "config":
		os.Exit(runConfig(args))
	case "options":
		os.Exit(runOptions(args))
	case "mcp":
		os.Exit(runMCP(args))
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
	fmt.Fprintln(w, "Usage: winscroll <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Run the snapping daemon (Ctrl+Alt+Arrow hotkeys)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  snap <zone>         Snap the foreground window (full_left, upper_right, lower_right, full_right)")
	fmt.Fprintln(w, "  snapping on|off     Register or release the snapping hotkeys")
	fmt.Fprintln(w, "  capture on|off      Confine the cursor to the capture region, or release it")
	fmt.Fprintln(w, "  capture set X Y W H Change the capture region")
	fmt.Fprintln(w, "  show                Bring the daemon's window to the front")
	fmt.Fprintln(w, "  quit                Stop the daemon")
	fmt.Fprintln(w, "  startup on|off|status  Manage starting the daemon at login")
	fmt.Fprintln(w, "  config              Print, validate or locate the settings file")
	fmt.Fprintln(w, "  options             Interactive options panel")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winscroll <command> --help' for command-specific options.")
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Settings file path (default: ~/.config/winscroll/settings.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winscroll daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the snapping daemon. A second instance asks the running one to")
		fmt.Fprintln(os.Stderr, "show its window and exits.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	configPath := *path
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			log.Printf("Settings path unavailable, changes will not be saved: %v", err)
		}
		configPath = p
	}

	cfg, err := config.LoadFromPath(configPath)
	keepFile := false
	if errors.Is(err, iofs.ErrNotExist) {
		log.Printf("No settings file yet, using defaults: %v", err)
	} else if err != nil {
		keepFile = true
		log.Printf("Invalid settings, using defaults until reload; %s will not be overwritten: %v", configPath, err)
	}

	levelVar := new(slog.LevelVar)
	if level, err := config.ParseLogLevel(cfg.LogLevel); err == nil {
		levelVar.Set(level)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))

	backend, err := platform.NewNativeBackend()
	if err != nil {
		log.Printf("Failed to connect to display: %v", err)
		return 1
	}
	defer backend.Disconnect()

	engine := daemon.NewEngine(backend, daemon.Options{
		Config:           cfg,
		ConfigPath:       configPath,
		KeepSettingsFile: keepFile,
		HostWindow:       hostWindowFromEnv(os.Getenv("WINDOWID")),
		Logger:           logger.With("component", "engine"),
		LogLevel:         levelVar,
	})

	ipcServer, err := ipc.NewServer(engine, logger.With("component", "ipc"))
	if err != nil {
		log.Printf("Failed to create IPC server: %v", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			log.Println("winscroll is already running; asking it to show its window")
			if err := ipc.NewClientAt(ipcServer.SocketPath()).Show(); err != nil {
				log.Printf("Show failed: %v", err)
			}
			return 0
		}
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer ipcServer.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				log.Println("Received SIGHUP, reloading settings...")
				if err := engine.Reload(); err != nil {
					log.Printf("Settings reload failed: %v", err)
				}
			case <-engine.Done():
				return
			}
		}
	}()

	go func() {
		backend.EventLoop()
		// The display connection is gone; nothing left to snap.
		engine.Quit()
	}()

	log.Println("winscroll daemon started")
	if err := engine.Run(ctx); err != nil {
		log.Printf("Daemon error: %v", err)
		return 1
	}
	log.Println("winscroll daemon stopped")
	return 0
}

// hostWindowFromEnv parses the terminal's window id as exported in
// $WINDOWID (decimal or 0x-prefixed hex).
func hostWindowFromEnv(v string) platform.WindowID {
	if v == "" {
		return 0
	}
	id, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return 0
	}
	return platform.WindowID(id)
}

func runOptions(args []string) int {
	fs := flag.NewFlagSet("options", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Settings file path (default: ~/.config/winscroll/settings.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winscroll options [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive options panel. Shows the live cursor position while the")
		fmt.Fprintln(os.Stderr, "daemon runs and edits the settings file offline otherwise.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1-3  Switch tabs")
		fmt.Fprintln(os.Stderr, "  e         Edit the current tab")
		fmt.Fprintln(os.Stderr, "  s         Toggle snapping (daemon)")
		fmt.Fprintln(os.Stderr, "  c         Toggle cursor capture (daemon)")
		fmt.Fprintln(os.Stderr, "  ctrl+s    Save settings and reload the daemon")
		fmt.Fprintln(os.Stderr, "  q         Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
