// Package gate implements the staged entry sequence in front of the admin
// login. A visitor advances through three stages with deliberate gestures
// (a long press or an upward drag); only stage 3 reveals the credential
// form. The stages are a deterrent, not a security boundary.
package gate

import (
	"sync"
	"time"
)

const (
	// FirstStage is where every new session starts.
	FirstStage = 1
	// FinalStage reveals the login form. Further gestures are absorbed.
	FinalStage = 3

	// MinHold is the shortest press that counts as deliberate.
	MinHold = 2 * time.Second
	// MinDragUp is the smallest upward travel, in pixels, that counts.
	MinDragUp = 80.0
)

// Machine tracks one visitor's position in the gate sequence. Gestures for
// the same token can arrive on concurrent requests, so the stage is guarded
// here; the Registry guards only the session map.
type Machine struct {
	mu    sync.Mutex
	stage int
}

func NewMachine() *Machine {
	return &Machine{stage: FirstStage}
}

func (m *Machine) Stage() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage
}

// Unlocked reports whether the login form may be shown.
func (m *Machine) Unlocked() bool {
	return m.Stage() >= FinalStage
}

// Press applies a press-and-hold gesture. Holds shorter than MinHold are
// ignored; qualifying holds advance exactly one stage, clamped at the
// final stage.
func (m *Machine) Press(held time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if held >= MinHold {
		m.advance()
	}
	return m.stage
}

// DragUp applies an upward drag gesture. delta is the upward travel in
// pixels; it must exceed MinDragUp strictly to advance.
func (m *Machine) DragUp(delta float64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if delta > MinDragUp {
		m.advance()
	}
	return m.stage
}

// advance is called with mu held.
func (m *Machine) advance() {
	if m.stage < FinalStage {
		m.stage++
	}
}
