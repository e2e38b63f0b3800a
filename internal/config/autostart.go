package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// AutostartName is the entry name used in the platform's login-items store.
const AutostartName = "WinScroll"

// Autostart controls whether the daemon starts at login.
type Autostart interface {
	Enabled() (bool, error)
	Enable(executable string) error
	Disable() error
}

// CurrentExecutable returns the absolute path of the running binary with
// symlinks resolved.
func CurrentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}
