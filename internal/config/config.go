package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fjtughy/winscroll/internal/capture"
	"github.com/fjtughy/winscroll/internal/snap"
	"gopkg.in/yaml.v3"
)

// Default capture region, matching a single 1080p display.
const (
	DefaultCaptureWidth  = 1920
	DefaultCaptureHeight = 1080
)

// Flag is a boolean persisted as the strings "true" and "false". Anything
// other than "true" (case-insensitive) reads as false.
type Flag bool

func (f Flag) String() string {
	if f {
		return "true"
	}
	return "false"
}

func (f Flag) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected \"true\" or \"false\"", value.Line)
	}
	*f = Flag(strings.EqualFold(strings.TrimSpace(value.Value), "true"))
	return nil
}

// Config is the persisted settings document.
type Config struct {
	CaptureX      int `yaml:"capture_x"`
	CaptureY      int `yaml:"capture_y"`
	CaptureWidth  int `yaml:"capture_width"`
	CaptureHeight int `yaml:"capture_height"`

	HideTrayIcon   Flag `yaml:"hide_tray_icon"`
	WindowSnapping Flag `yaml:"window_snapping"`
	// PinHostWindow keeps the terminal hosting the daemon parked on the
	// capture region while capture is on.
	PinHostWindow Flag `yaml:"pin_host_window"`

	Grid  snap.Grid  `yaml:"grid"`
	Spans snap.Spans `yaml:"spans"`

	LogLevel string `yaml:"log_level"`
}

// ValidationError ties a validation failure to the settings key that caused it.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		CaptureWidth:   DefaultCaptureWidth,
		CaptureHeight:  DefaultCaptureHeight,
		WindowSnapping: true,
		Grid:           snap.DefaultGrid(),
		Spans:          snap.DefaultSpans(),
		LogLevel:       "info",
	}
}

// Validate checks the settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Grid.Columns < 1 {
		return &ValidationError{Path: "grid.columns", Err: fmt.Errorf("columns must be >= 1")}
	}
	if c.Grid.Rows < 1 {
		return &ValidationError{Path: "grid.rows", Err: fmt.Errorf("rows must be >= 1")}
	}
	if err := c.Spans.Validate(); err != nil {
		return &ValidationError{Path: "spans", Err: err}
	}
	if c.Spans.LeftColumns > c.Grid.Columns {
		return &ValidationError{Path: "spans.left_columns", Err: fmt.Errorf("left_columns exceeds grid columns (%d)", c.Grid.Columns)}
	}
	if c.Spans.RightColumn+c.Spans.RightWidth > c.Grid.Columns {
		return &ValidationError{Path: "spans.right_width", Err: fmt.Errorf("right_column + right_width exceeds grid columns (%d)", c.Grid.Columns)}
	}
	if c.Spans.AlternateColumn+c.Spans.AlternateWidth > c.Grid.Columns {
		return &ValidationError{Path: "spans.alternate_width", Err: fmt.Errorf("alternate_column + alternate_width exceeds grid columns (%d)", c.Grid.Columns)}
	}
	if c.Spans.UpperRows+c.Spans.LowerRows > c.Grid.Rows {
		return &ValidationError{Path: "spans.lower_rows", Err: fmt.Errorf("upper_rows + lower_rows exceeds grid rows (%d)", c.Grid.Rows)}
	}
	if c.Spans.FullRows > c.Grid.Rows {
		return &ValidationError{Path: "spans.full_rows", Err: fmt.Errorf("full_rows exceeds grid rows (%d)", c.Grid.Rows)}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	return nil
}

// CaptureRegion returns the capture rectangle with the width/height
// auto-correction applied.
func (c *Config) CaptureRegion() capture.Region {
	return capture.Region{
		X:      c.CaptureX,
		Y:      c.CaptureY,
		Width:  c.CaptureWidth,
		Height: c.CaptureHeight,
	}.Normalize()
}

// SetCaptureRegion stores r after auto-correction.
func (c *Config) SetCaptureRegion(r capture.Region) {
	r = r.Normalize()
	c.CaptureX, c.CaptureY = r.X, r.Y
	c.CaptureWidth, c.CaptureHeight = r.Width, r.Height
}

// ErrInvalidLogLevel is returned for an unrecognized log_level value.
var ErrInvalidLogLevel = errors.New("log_level must be one of: debug, info, warning, error")

// ParseLogLevel maps a settings log level to slog. Empty means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, ErrInvalidLogLevel
	}
}

// Marshal renders the settings as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
