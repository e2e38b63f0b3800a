package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fjtughy/winscroll/internal/config"
)

var errNoChanges = errors.New("no changes to save")

type savePhase int

const (
	saveHidden savePhase = iota
	savePreview
	saveResult
)

type diffLine struct {
	sign byte // ' ', '-' or '+'
	text string
}

// SaveOverlay previews pending settings changes and writes them on confirm.
type SaveOverlay struct {
	phase    savePhase
	lines    []diffLine
	err      error
	reloaded bool
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Show opens the preview, or a "no changes" notice when nothing differs.
func (s *SaveOverlay) Show(original, current *config.Config) {
	s.err = nil
	s.reloaded = false
	s.lines = settingsDiff(original, current)
	if len(s.lines) == 0 {
		s.err = errNoChanges
		s.phase = saveResult
		return
	}
	s.phase = savePreview
}

// Update handles input while the overlay is active. save writes the
// settings; daemon, when non-nil, is asked to reload them afterwards.
func (s SaveOverlay) Update(msg tea.Msg, save func() error, daemon Daemon) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	switch s.phase {
	case savePreview:
		switch km.String() {
		case "esc", "n":
			s.phase = saveHidden
		case "enter", "y":
			s.err = save()
			if s.err == nil && daemon != nil {
				s.reloaded = daemon.Reload() == nil
			}
			s.phase = saveResult
		}
	case saveResult:
		s.phase = saveHidden
	}
	return s
}

// View renders the overlay centred in the content area.
func (s SaveOverlay) View(width, height int) string {
	var content string
	switch s.phase {
	case savePreview:
		title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Save Settings")
		add := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		rm := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		var b strings.Builder
		for _, l := range s.lines {
			switch l.sign {
			case '+':
				b.WriteString(add.Render("+ " + l.text))
			case '-':
				b.WriteString(rm.Render("- " + l.text))
			default:
				b.WriteString(dimStyle.Render("  " + l.text))
			}
			b.WriteByte('\n')
		}
		content = title + "\n\n" + b.String() + "\n" + dimStyle.Render("enter: save  esc: cancel")
	case saveResult:
		if s.err != nil {
			content = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("Error: " + s.err.Error())
		} else {
			content = onStyle.Render("Settings saved")
			if s.reloaded {
				content += "\n" + onStyle.Render("Daemon reloaded")
			}
		}
		content += "\n\n" + dimStyle.Render("press any key to dismiss")
	default:
		return ""
	}

	boxW := width - 8
	if boxW > 70 {
		boxW = 70
	}
	if boxW < 30 {
		boxW = 30
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxW).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// settingsDiff compares the YAML renderings line by line. The settings
// document has a fixed key order, so lines pair up by index; only changed
// lines and the section header above them are returned.
func settingsDiff(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	a, errA := original.Marshal()
	b, errB := current.Marshal()
	if errA != nil || errB != nil {
		return nil
	}
	before := strings.Split(strings.TrimRight(string(a), "\n"), "\n")
	after := strings.Split(strings.TrimRight(string(b), "\n"), "\n")

	var out []diffLine
	section := ""
	emitted := ""
	for i := 0; i < len(before) || i < len(after); i++ {
		var x, y string
		if i < len(before) {
			x = before[i]
		}
		if i < len(after) {
			y = after[i]
		}
		if !strings.HasPrefix(y, " ") && strings.HasSuffix(y, ":") {
			section = y
		}
		if x == y {
			continue
		}
		if strings.HasPrefix(y, " ") && section != "" && emitted != section {
			out = append(out, diffLine{sign: ' ', text: section})
			emitted = section
		}
		if x != "" {
			out = append(out, diffLine{sign: '-', text: x})
		}
		if y != "" {
			out = append(out, diffLine{sign: '+', text: y})
		}
	}
	return out
}

func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	c := *cfg
	return &c
}
