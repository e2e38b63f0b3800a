package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fjtughy/winscroll/internal/ipc"
)

// Tab identifies a panel tab.
type Tab int

const (
	TabSettings Tab = iota
	TabCapture
	TabZones
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabSettings:
		return "Settings"
	case TabCapture:
		return "Capture"
	case TabZones:
		return "Zones"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(20).
			Align(lipgloss.Right).
			PaddingRight(2)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)

	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	onStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	offStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func renderTabBar(active Tab, width int) string {
	tabs := make([]string, 0, tabCount)
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(tabs, " "))
	return lipgloss.NewStyle().Width(width).MarginBottom(1).Render(row)
}

func renderStatusBar(status *ipc.StatusData, width int) string {
	var text string
	if status != nil {
		dot := onStyle.Render("●")
		parts := []string{dot + " daemon connected"}
		parts = append(parts, "hotkeys:"+status.HotkeyState)
		if len(status.InertZones) > 0 {
			parts = append(parts, warnStyle.Render("inert:"+strings.Join(status.InertZones, ",")))
		}
		if status.CaptureEnabled {
			parts = append(parts, "capture:on")
		}
		text = strings.Join(parts, "  ")
	} else {
		text = offStyle.Render("●") + " daemon not running"
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Render(text)
}

func renderHelpBar(width int) string {
	help := "tab: switch  1-3: jump  e: edit  s: snapping  c: capture  y: copy cursor  ctrl-s: save  q: quit"
	return lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1).
		Render(help)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func onOff(v bool) string {
	if v {
		return onStyle.Render("on")
	}
	return offStyle.Render("off")
}
