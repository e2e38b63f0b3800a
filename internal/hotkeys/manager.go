package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/fjtughy/winscroll/internal/platform"
	"github.com/fjtughy/winscroll/internal/snap"
)

// ErrHotkeyRegistrationFailed marks a binding the OS refused, typically
// because another process already owns the combination.
var ErrHotkeyRegistrationFailed = errors.New("hotkey registration failed")

// State is the registration state of the manager.
type State int

const (
	// Inactive means no global hotkeys are registered.
	Inactive State = iota
	// Active means every zone binding has been offered to the OS.
	Active
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Binding ties a zone to a key combination and its stable identifier.
type Binding struct {
	Zone      snap.Zone
	Modifiers platform.Modifier
	Key       platform.Key
	ID        platform.HotkeyID
}

// DefaultBindings returns Ctrl+Alt+Arrow for each zone.
func DefaultBindings() []Binding {
	bindings := make([]Binding, 0, len(snap.Zones))
	for _, z := range snap.Zones {
		bindings = append(bindings, Binding{
			Zone:      z,
			Modifiers: platform.ModCtrl | platform.ModAlt,
			Key:       z.Key(),
			ID:        z.HotkeyID(),
		})
	}
	return bindings
}

// Registrar performs the OS-level hotkey registration.
type Registrar interface {
	RegisterHotkey(id platform.HotkeyID, mods platform.Modifier, key platform.Key) error
	UnregisterHotkey(id platform.HotkeyID) error
}

// ZoneHandler is invoked for every activation of a held binding.
type ZoneHandler func(zone snap.Zone, at time.Time)

// Manager owns the lifetime of the zone hotkey registrations.
type Manager struct {
	registrar Registrar
	handler   ZoneHandler
	logger    *slog.Logger

	bindings []Binding
	held     map[platform.HotkeyID]Binding
	inert    map[snap.Zone]error
	state    State
}

// NewManager creates an inactive manager for the default bindings.
func NewManager(registrar Registrar, handler ZoneHandler, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registrar: registrar,
		handler:   handler,
		logger:    logger,
		bindings:  DefaultBindings(),
		held:      make(map[platform.HotkeyID]Binding),
		inert:     make(map[snap.Zone]error),
	}
}

func (m *Manager) State() State {
	return m.state
}

// Enable registers every binding and moves to Active. A binding the OS
// refuses is left inert; the returned error lists those failures but the
// manager is Active either way.
func (m *Manager) Enable() error {
	if m.state == Active {
		return nil
	}

	var errs []error
	for _, b := range m.bindings {
		if _, ok := m.held[b.ID]; ok {
			continue
		}
		if err := m.registrar.RegisterHotkey(b.ID, b.Modifiers, b.Key); err != nil {
			wrapped := fmt.Errorf("%w: %s (Ctrl+Alt+%s): %v", ErrHotkeyRegistrationFailed, b.Zone, b.Key, err)
			m.inert[b.Zone] = wrapped
			m.logger.Warn("hotkey unavailable, zone inert", "zone", b.Zone.String(), "key", b.Key.String(), "error", err)
			errs = append(errs, wrapped)
			continue
		}
		delete(m.inert, b.Zone)
		m.held[b.ID] = b
		m.logger.Debug("hotkey registered", "zone", b.Zone.String(), "id", int(b.ID))
	}

	m.state = Active
	m.logger.Info("window snapping enabled", "registered", len(m.held), "inert", len(m.inert))
	return errors.Join(errs...)
}

// Disable releases every held binding and moves to Inactive. Bindings are
// forgotten even when the OS reports an error so no claim is tracked twice.
func (m *Manager) Disable() {
	for id, b := range m.held {
		if err := m.registrar.UnregisterHotkey(id); err != nil {
			m.logger.Warn("hotkey unregister failed", "zone", b.Zone.String(), "error", err)
		}
		delete(m.held, id)
	}
	for z := range m.inert {
		delete(m.inert, z)
	}
	if m.state == Active {
		m.logger.Info("window snapping disabled")
	}
	m.state = Inactive
}

// Dispatch routes an activation to the zone handler. It reports whether the
// activation belonged to a held binding.
func (m *Manager) Dispatch(a platform.Activation) bool {
	if m.state != Active {
		return false
	}
	b, ok := m.held[a.ID]
	if !ok {
		return false
	}
	if m.handler != nil {
		m.handler(b.Zone, a.At)
	}
	return true
}

// Held returns the registered bindings ordered by identifier.
func (m *Manager) Held() []Binding {
	out := make([]Binding, 0, len(m.held))
	for _, b := range m.held {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Inert returns the zones whose hotkey could not be registered.
func (m *Manager) Inert() []snap.Zone {
	out := make([]snap.Zone, 0, len(m.inert))
	for z := range m.inert {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
