package platform

import "time"

const eventBuffer = 64

// Events is the channel pair shared by every backend implementation.
type Events struct {
	activations chan Activation
	signals     chan Signal
}

// NewEvents allocates buffered activation and signal channels.
func NewEvents() *Events {
	return &Events{
		activations: make(chan Activation, eventBuffer),
		signals:     make(chan Signal, eventBuffer),
	}
}

func (e *Events) Activations() <-chan Activation {
	return e.activations
}

func (e *Events) Signals() <-chan Signal {
	return e.signals
}

// PostActivation queues a hotkey activation. Every press is delivered, so
// this blocks when the consumer falls a full buffer behind.
func (e *Events) PostActivation(id HotkeyID) {
	e.activations <- Activation{ID: id, At: time.Now()}
}

// PostSignal queues a signal, dropping it when the buffer is full.
func (e *Events) PostSignal(sig Signal) {
	select {
	case e.signals <- sig:
	default:
	}
}
