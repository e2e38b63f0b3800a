package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fjtughy/winscroll/internal/config"
	"github.com/fjtughy/winscroll/internal/platform"
	"github.com/fjtughy/winscroll/internal/snap"
)

// previewArea is the work area the zones tab computes targets against.
var previewArea = platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

type zoneRow struct {
	zone      snap.Zone
	hotkey    string
	primary   platform.Rect
	alternate platform.Rect
	toggles   bool
}

func zoneRows(cfg *config.Config, workArea platform.Rect) []zoneRow {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cell, err := snap.CellSize(workArea, cfg.Grid)
	if err != nil {
		return nil
	}
	rows := make([]zoneRow, 0, len(snap.Zones))
	for _, z := range snap.Zones {
		rows = append(rows, zoneRow{
			zone:      z,
			hotkey:    "Ctrl+Alt+" + z.Key().String(),
			primary:   snap.Primary(z, workArea, cell, cfg.Grid, cfg.Spans),
			alternate: snap.Alternate(z, workArea, cell, cfg.Grid, cfg.Spans),
			toggles:   z.Toggles(),
		})
	}
	return rows
}

// gridMap draws one character per grid cell: L for full_left, U and D for
// the upper and lower right zones (full_right covers both).
func gridMap(cfg *config.Config) []string {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	g, sp := cfg.Grid, cfg.Spans
	lines := make([]string, 0, g.Rows)
	for r := 0; r < g.Rows; r++ {
		var b strings.Builder
		for c := 0; c < g.Columns; c++ {
			inRight := c >= sp.RightColumn && c < sp.RightColumn+sp.RightWidth
			switch {
			case c < sp.LeftColumns && r < sp.FullRows:
				b.WriteByte('L')
			case inRight && r < sp.UpperRows:
				b.WriteByte('U')
			case inRight && r < sp.UpperRows+sp.LowerRows:
				b.WriteByte('D')
			default:
				b.WriteByte('.')
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}

func renderZonesTab(cfg *config.Config, width, height int) string {
	head := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	cellStyle := lipgloss.NewStyle().Width(14)
	rectStyle := lipgloss.NewStyle().Width(20)

	lines := []string{
		dimStyle.Render("Targets on a " + previewArea.String() + " work area"),
		"",
		head.Render(cellStyle.Render("zone") + cellStyle.Render("hotkey") + rectStyle.Render("primary") + rectStyle.Render("alternate")),
	}
	for _, zr := range zoneRows(cfg, previewArea) {
		alt := "-"
		if zr.toggles {
			alt = zr.alternate.String()
		}
		lines = append(lines, cellStyle.Render(zr.zone.String())+
			cellStyle.Render(zr.hotkey)+
			rectStyle.Render(zr.primary.String())+
			rectStyle.Render(alt))
	}

	lines = append(lines, "")
	for _, l := range gridMap(cfg) {
		lines = append(lines, "  "+valueStyle.Render(l))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}
