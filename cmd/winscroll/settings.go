package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fjtughy/winscroll/internal/config"
)

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  winscroll config validate [--path PATH]")
	fmt.Fprintln(os.Stderr, "  winscroll config print [--path PATH] [--defaults]")
	fmt.Fprintln(os.Stderr, "  winscroll config path")
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage()
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Settings file path (default: ~/.config/winscroll/settings.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadSettings(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Settings file path (default: ~/.config/winscroll/settings.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			loaded, err := loadSettings(*path)
			if err != nil && !errors.Is(err, config.ErrConfigurationUnavailable) {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			if err != nil {
				fmt.Println("# settings file unavailable, showing defaults")
			}
			cfg = loaded
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func loadSettings(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func runStartup(args []string) int {
	if len(args) != 1 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: winscroll startup on|off|status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the daemon automatically at login.")
		if len(args) == 1 {
			return 0
		}
		return 2
	}

	autostart, err := config.NewAutostart()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if args[0] == "status" {
		enabled, err := autostart.Enabled()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("run_at_startup: %v\n", enabled)
		return 0
	}

	enable, err := parseOnOff(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if enable {
		exe, err := config.CurrentExecutable()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		err = autostart.Enable(exe)
	} else {
		err = autostart.Disable()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("run_at_startup: %v\n", enable)
	return 0
}
