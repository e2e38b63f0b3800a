package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/fjtughy/winscroll/internal/config"
)

// SettingsTab shows and edits the flags, grid and log level.
type SettingsTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fWindowSnapping bool
	fPinHostWindow  bool
	fHideTrayIcon   bool
	fColumns        string
	fRows           string
	fLogLevel       string
}

// NewSettingsTab creates a SettingsTab bound to cfg.
func NewSettingsTab(cfg *config.Config) SettingsTab {
	return SettingsTab{cfg: cfg}
}

// Update handles input for the tab.
func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			s.startEditing()
			return s, s.form.Init()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.editing = false
			s.form = nil
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.applyForm()
		s.editing = false
		s.form = nil
		return s, nil
	}
	return s, cmd
}

func (s *SettingsTab) startEditing() {
	s.loadForm()

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("window_snapping").
				Title("Window Snapping").
				Description("Ctrl+Alt+Arrow hotkeys snap the foreground window").
				Affirmative("On").
				Negative("Off").
				Value(&s.fWindowSnapping),
			huh.NewConfirm().
				Key("pin_host_window").
				Title("Pin Host Window").
				Description("Park the daemon's terminal on the capture region while capture is on").
				Affirmative("On").
				Negative("Off").
				Value(&s.fPinHostWindow),
			huh.NewConfirm().
				Key("hide_tray_icon").
				Title("Hide Tray Icon").
				Affirmative("Yes").
				Negative("No").
				Value(&s.fHideTrayIcon),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("grid_columns").
				Title("Grid Columns").
				Description("Zone spans are counted in these cells").
				Validate(positiveInt).
				Value(&s.fColumns),
			huh.NewInput().
				Key("grid_rows").
				Title("Grid Rows").
				Validate(positiveInt).
				Value(&s.fRows),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warning", "error")...).
				Value(&s.fLogLevel),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

func (s *SettingsTab) loadForm() {
	cfg := s.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s.fWindowSnapping = bool(cfg.WindowSnapping)
	s.fPinHostWindow = bool(cfg.PinHostWindow)
	s.fHideTrayIcon = bool(cfg.HideTrayIcon)
	s.fColumns = strconv.Itoa(cfg.Grid.Columns)
	s.fRows = strconv.Itoa(cfg.Grid.Rows)
	s.fLogLevel = strings.ToLower(cfg.LogLevel)
	if s.fLogLevel == "" || s.fLogLevel == "warn" {
		s.fLogLevel = "info"
	}
}

func (s *SettingsTab) applyForm() {
	if s.cfg == nil {
		return
	}
	s.cfg.WindowSnapping = config.Flag(s.fWindowSnapping)
	s.cfg.PinHostWindow = config.Flag(s.fPinHostWindow)
	s.cfg.HideTrayIcon = config.Flag(s.fHideTrayIcon)
	if v, err := strconv.Atoi(strings.TrimSpace(s.fColumns)); err == nil && v > 0 {
		s.cfg.Grid.Columns = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s.fRows)); err == nil && v > 0 {
		s.cfg.Grid.Rows = v
	}
	if s.fLogLevel != "" {
		s.cfg.LogLevel = s.fLogLevel
	}
}

// View renders the tab.
func (s SettingsTab) View() string {
	if s.editing && s.form != nil {
		return viewForm("Editing Settings", s.form, s.width, s.height)
	}
	if s.cfg == nil {
		return lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No settings loaded")
	}

	cfg := s.cfg
	lines := []string{
		"",
		row("Window Snapping", onOff(bool(cfg.WindowSnapping))),
		row("Pin Host Window", onOff(bool(cfg.PinHostWindow))),
		row("Hide Tray Icon", onOff(bool(cfg.HideTrayIcon))),
		"",
		row("Grid", fmt.Sprintf("%d columns × %d rows", cfg.Grid.Columns, cfg.Grid.Rows)),
		row("Log Level", displayOrDefault(cfg.LogLevel, "info")),
		"",
		dimStyle.Render("  Press 'e' to edit settings, 's' to toggle snapping on the daemon"),
	}

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func viewForm(title string, form *huh.Form, width, height int) string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render(title) +
		dimStyle.Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(header + "\n\n" + form.View())
}

func positiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if v < 1 {
		return fmt.Errorf("must be >= 1")
	}
	return nil
}

func signedInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a whole number")
	}
	return nil
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
