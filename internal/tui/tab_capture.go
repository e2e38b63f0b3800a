package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/config"
	"github.com/fjtughy/winscroll/internal/ipc"
	"github.com/fjtughy/winscroll/internal/platform"
)

// CaptureTab shows the capture region next to the live cursor position and
// edits the region.
type CaptureTab struct {
	cfg    *config.Config
	status *ipc.StatusData

	width  int
	height int

	editing bool
	form    *huh.Form

	fX      string
	fY      string
	fWidth  string
	fHeight string
}

// NewCaptureTab creates a CaptureTab bound to cfg.
func NewCaptureTab(cfg *config.Config) CaptureTab {
	return CaptureTab{cfg: cfg}
}

// SetStatus records the latest daemon status; nil means disconnected.
func (c *CaptureTab) SetStatus(status *ipc.StatusData) {
	c.status = status
}

// Update handles input for the tab.
func (c CaptureTab) Update(msg tea.Msg) (CaptureTab, tea.Cmd) {
	if c.editing {
		return c.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			c.startEditing()
			return c, c.form.Init()
		}
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
	}
	return c, nil
}

func (c CaptureTab) updateEditing(msg tea.Msg) (CaptureTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			c.editing = false
			c.form = nil
			return c, nil
		}
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.applyForm()
		c.editing = false
		c.form = nil
		return c, nil
	}
	return c, cmd
}

func (c *CaptureTab) startEditing() {
	c.loadForm()

	w := c.width - 4
	if w < 40 {
		w = 40
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("capture_x").
				Title("X").
				Description("Left edge in screen pixels").
				Validate(signedInt).
				Value(&c.fX),
			huh.NewInput().
				Key("capture_y").
				Title("Y").
				Description("Top edge in screen pixels").
				Validate(signedInt).
				Value(&c.fY),
			huh.NewInput().
				Key("capture_width").
				Title("Right Edge (width)").
				Description("Raised to X+1 when X is not below it").
				Validate(signedInt).
				Value(&c.fWidth),
			huh.NewInput().
				Key("capture_height").
				Title("Bottom Edge (height)").
				Description("Raised to Y+1 when Y is not below it").
				Validate(signedInt).
				Value(&c.fHeight),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	c.editing = true
}

func (c *CaptureTab) loadForm() {
	cfg := c.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c.fX = strconv.Itoa(cfg.CaptureX)
	c.fY = strconv.Itoa(cfg.CaptureY)
	c.fWidth = strconv.Itoa(cfg.CaptureWidth)
	c.fHeight = strconv.Itoa(cfg.CaptureHeight)
}

func (c *CaptureTab) applyForm() {
	if c.cfg == nil {
		return
	}
	r := c.cfg.CaptureRegion()
	if v, err := strconv.Atoi(strings.TrimSpace(c.fX)); err == nil {
		r.X = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.fY)); err == nil {
		r.Y = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.fWidth)); err == nil {
		r.Width = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.fHeight)); err == nil {
		r.Height = v
	}
	c.cfg.SetCaptureRegion(r)
}

// View renders the tab.
func (c CaptureTab) View() string {
	if c.editing && c.form != nil {
		return viewForm("Editing Capture Region", c.form, c.width, c.height)
	}

	var region capture.Region
	if c.cfg != nil {
		region = c.cfg.CaptureRegion()
	} else {
		region = config.DefaultConfig().CaptureRegion()
	}

	lines := []string{
		"",
		row("Region", formatRegion(region)),
	}

	if c.status == nil {
		lines = append(lines,
			row("Capture", dimStyle.Render("unknown (daemon not running)")),
			row("Cursor", dimStyle.Render("unknown")),
		)
	} else {
		lines = append(lines, row("Capture", onOff(c.status.CaptureEnabled)))
		if c.status.CaptureRegion != region {
			lines = append(lines, row("Daemon Region", warnStyle.Render(formatRegion(c.status.CaptureRegion)+" (unsaved here)")))
		}
		lines = append(lines, row("Cursor", formatCursor(c.status.Cursor, region)))
	}

	lines = append(lines,
		"",
		dimStyle.Render("  Press 'e' to edit the region, 'c' to toggle capture on the daemon"),
	)

	return lipgloss.NewStyle().
		Width(c.width).
		Height(c.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func formatRegion(r capture.Region) string {
	size := r.Rect()
	return fmt.Sprintf("%d,%d to %d,%d  %d×%d", r.X, r.Y, r.Width, r.Height, size.Width, size.Height)
}

func formatCursor(cur *ipc.CursorData, region capture.Region) string {
	if cur == nil {
		return dimStyle.Render("unavailable")
	}
	text := fmt.Sprintf("%d, %d", cur.X, cur.Y)
	if cur.Display != "" {
		text += " on " + cur.Display
	}
	if region.Rect().Contains(platform.Point{X: cur.X, Y: cur.Y}) {
		return text + "  " + onStyle.Render("inside")
	}
	return text + "  " + warnStyle.Render("outside")
}
