package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fjtughy/winscroll/internal/config"
	"github.com/fjtughy/winscroll/internal/ipc"
)

// pollInterval paces the status refresh that drives the live cursor readout.
const pollInterval = 200 * time.Millisecond

type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type pollMsg struct{}

type toggledMsg struct {
	err error
}

// model is the root bubbletea model for the options panel.
type model struct {
	configPath string
	cfg        *config.Config
	original   *config.Config
	daemon     Daemon

	activeTab   Tab
	settingsTab SettingsTab
	captureTab  CaptureTab
	saveOverlay SaveOverlay

	status  *ipc.StatusData
	lastErr string
	loadErr string
	notice  string

	// copyText writes to the system clipboard.
	copyText func(string) error

	width  int
	height int
}

func newModel(configPath string, cfg *config.Config, daemon Daemon) model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return model{
		configPath:  configPath,
		cfg:         cfg,
		original:    cloneConfig(cfg),
		daemon:      daemon,
		activeTab:   TabSettings,
		settingsTab: NewSettingsTab(cfg),
		captureTab:  NewCaptureTab(cfg),
		copyText:    clipboard.WriteAll,
	}
}

func (m model) fetchStatus() tea.Cmd {
	daemon := m.daemon
	return func() tea.Msg {
		if daemon == nil {
			return statusMsg{}
		}
		status, err := daemon.GetStatus()
		return statusMsg{status: status, err: err}
	}
}

func schedulePoll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func (m model) save() error {
	if m.configPath == "" {
		return m.cfg.Save()
	}
	return m.cfg.SaveTo(m.configPath)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.fetchStatus()
}

func (m model) contentHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m model) editing() bool {
	return (m.activeTab == TabSettings && m.settingsTab.editing) ||
		(m.activeTab == TabCapture && m.captureTab.editing)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.setStatus(msg.status, msg.err)
		return m, schedulePoll()
	case pollMsg:
		return m, m.fetchStatus()
	case toggledMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		} else {
			m.lastErr = ""
		}
		return m, m.fetchStatus()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.settingsTab, _ = m.settingsTab.Update(sub)
		m.captureTab, _ = m.captureTab.Update(sub)
		return m, nil
	}

	km, isKey := msg.(tea.KeyMsg)
	if isKey && km.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.saveOverlay.Active() {
		var daemon Daemon
		if m.status != nil {
			daemon = m.daemon
		}
		m.saveOverlay = m.saveOverlay.Update(msg, m.save, daemon)
		if m.saveOverlay.SaveSucceeded() {
			m.original = cloneConfig(m.cfg)
		}
		return m, nil
	}

	if isKey && km.String() == "ctrl+s" {
		m.saveOverlay.Show(m.original, m.cfg)
		return m, nil
	}

	if m.editing() {
		return m.delegate(msg)
	}

	if isKey {
		switch km.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabSettings
			return m, nil
		case "2":
			m.activeTab = TabCapture
			return m, nil
		case "3":
			m.activeTab = TabZones
			return m, nil
		case "s":
			return m, m.toggleSnapping()
		case "c":
			return m, m.toggleCapture()
		case "y":
			m.copyCursor()
			return m, nil
		}
	}

	return m.delegate(msg)
}

func (m model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	case TabCapture:
		m.captureTab, cmd = m.captureTab.Update(msg)
	}
	return m, cmd
}

func (m *model) setStatus(status *ipc.StatusData, err error) {
	if err != nil {
		status = nil
	}
	m.status = status
	m.captureTab.SetStatus(status)
}

// toggleSnapping flips hotkey snapping on the daemon. The daemon persists
// the flag itself, so both the working and saved copies follow it.
func (m *model) toggleSnapping() tea.Cmd {
	if m.status == nil || m.daemon == nil {
		m.lastErr = "daemon not running"
		return nil
	}
	enabled := !m.status.WindowSnapping
	m.cfg.WindowSnapping = config.Flag(enabled)
	if m.original != nil {
		m.original.WindowSnapping = config.Flag(enabled)
	}
	daemon := m.daemon
	return func() tea.Msg {
		return toggledMsg{err: daemon.SetSnapping(enabled)}
	}
}

func (m *model) toggleCapture() tea.Cmd {
	if m.status == nil || m.daemon == nil {
		m.lastErr = "daemon not running"
		return nil
	}
	enabled := !m.status.CaptureEnabled
	daemon := m.daemon
	return func() tea.Msg {
		return toggledMsg{err: daemon.SetCapture(enabled)}
	}
}

// copyCursor puts the live cursor position on the clipboard as "X Y", the
// order `capture set` takes.
func (m *model) copyCursor() {
	m.notice = ""
	if m.status == nil || m.status.Cursor == nil {
		m.lastErr = "cursor position unavailable"
		return
	}
	text := fmt.Sprintf("%d %d", m.status.Cursor.X, m.status.Cursor.Y)
	if err := m.copyText(text); err != nil {
		m.lastErr = "clipboard: " + err.Error()
		return
	}
	m.lastErr = ""
	m.notice = "copied " + text
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)
	if msg := m.footerMessage(); msg != "" {
		helpBar = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Padding(0, 1).Render(warnStyle.Render(msg)),
			helpBar)
	}

	used := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - used
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch {
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.activeTab == TabSettings:
		content = m.settingsTab.View()
	case m.activeTab == TabCapture:
		content = m.captureTab.View()
	default:
		content = renderZonesTab(m.cfg, m.width, contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, tabBar, content, helpBar)
}

func (m model) footerMessage() string {
	if m.lastErr != "" {
		return m.lastErr
	}
	if m.loadErr != "" {
		return "settings: " + m.loadErr + " (showing defaults)"
	}
	return m.notice
}
