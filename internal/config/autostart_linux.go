//go:build linux

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DesktopAutostart manages an XDG autostart .desktop entry.
type DesktopAutostart struct {
	Dir string
}

// NewAutostart returns the XDG autostart store under $XDG_CONFIG_HOME or
// ~/.config.
func NewAutostart() (Autostart, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return &DesktopAutostart{Dir: filepath.Join(base, "autostart")}, nil
}

func (a *DesktopAutostart) path() string {
	return filepath.Join(a.Dir, "winscroll.desktop")
}

func (a *DesktopAutostart) Enabled() (bool, error) {
	_, err := os.Stat(a.path())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (a *DesktopAutostart) Enable(executable string) error {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}
	entry := strings.Join([]string{
		"[Desktop Entry]",
		"Type=Application",
		"Name=" + AutostartName,
		"Comment=Snap windows into screen zones with Ctrl+Alt+Arrow",
		"Exec=" + desktopExecQuote(executable) + " daemon",
		"Terminal=false",
		"X-GNOME-Autostart-enabled=true",
		"",
	}, "\n")
	if err := os.WriteFile(a.path(), []byte(entry), 0644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}
	return nil
}

func (a *DesktopAutostart) Disable() error {
	if err := os.Remove(a.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}
	return nil
}

// desktopExecQuote quotes a path for the Exec key when it contains
// characters the desktop entry format treats specially.
func desktopExecQuote(path string) string {
	if !strings.ContainsAny(path, " \t\"'\\$`") {
		return path
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return `"` + r.Replace(path) + `"`
}
