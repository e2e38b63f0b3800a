package tui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/config"
	"github.com/fjtughy/winscroll/internal/ipc"
)

// Daemon is the part of the IPC client the options panel drives.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	SetSnapping(enabled bool) error
	SetCapture(enabled bool) error
	SetCaptureRegion(r capture.Region) (capture.Region, error)
	Reload() error
}

// Run opens the options panel for the settings file at configPath (empty
// means the default location). It works offline when no daemon is running.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("options panel requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	cfg, loadErr := loadConfig(configPath)

	m := newModel(configPath, cfg, ipc.NewClient())
	if loadErr != nil && !errors.Is(loadErr, config.ErrConfigurationUnavailable) {
		m.loadErr = loadErr.Error()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}
