package gate

import (
	"sync"
	"testing"
	"time"

	"github.com/geniusclasses/backend/internal/platform/logger"
)

func TestPressAdvancesOnlyWhenHeldLongEnough(t *testing.T) {
	m := NewMachine()

	if got := m.Press(1500 * time.Millisecond); got != 1 {
		t.Fatalf("short press advanced to stage %d", got)
	}
	if got := m.Press(2 * time.Second); got != 2 {
		t.Fatalf("expected stage 2 after a full hold, got %d", got)
	}
	if got := m.Press(5 * time.Second); got != 3 {
		t.Fatalf("expected stage 3, got %d", got)
	}
}

func TestDragUpThreshold(t *testing.T) {
	m := NewMachine()

	if got := m.DragUp(80); got != 1 {
		t.Fatalf("drag of exactly 80px should not advance, got stage %d", got)
	}
	if got := m.DragUp(81); got != 2 {
		t.Fatalf("expected stage 2 after 81px drag, got %d", got)
	}
	if got := m.DragUp(-120); got != 2 {
		t.Fatalf("downward drag advanced to stage %d", got)
	}
}

func TestStageClampsAtFinal(t *testing.T) {
	m := NewMachine()
	for i := 0; i < 6; i++ {
		m.Press(3 * time.Second)
	}
	if got := m.Stage(); got != FinalStage {
		t.Fatalf("expected clamp at %d, got %d", FinalStage, got)
	}
	if !m.Unlocked() {
		t.Fatal("final stage should unlock the login form")
	}
}

func TestConcurrentGesturesStayClamped(t *testing.T) {
	log := testLogger(t)
	r := NewRegistry(log)
	token, _ := r.Begin()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := r.Get(token)
			if m == nil {
				t.Error("session vanished mid-flight")
				return
			}
			m.Press(3 * time.Second)
			m.DragUp(200)
		}()
	}
	wg.Wait()

	m := r.Get(token)
	if got := m.Stage(); got != FinalStage {
		t.Fatalf("expected clamp at %d under concurrent gestures, got %d", FinalStage, got)
	}
}

func TestGesturesMixAcrossStages(t *testing.T) {
	m := NewMachine()
	m.Press(2500 * time.Millisecond)
	m.DragUp(200)
	if got := m.Stage(); got != 3 {
		t.Fatalf("mixed gestures should reach stage 3, got %d", got)
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestRegistrySessionLifecycle(t *testing.T) {
	r := NewRegistry(testLogger(t))

	token, m := r.Begin()
	if m.Stage() != FirstStage {
		t.Fatalf("new session starts at stage %d", m.Stage())
	}
	if got := r.Get(token); got != m {
		t.Fatal("Get did not return the session machine")
	}
	if got := r.Get("no-such-token"); got != nil {
		t.Fatal("unknown token returned a machine")
	}

	r.Drop(token)
	if got := r.Get(token); got != nil {
		t.Fatal("dropped session still resolvable")
	}
}

func TestRegistryExpiresIdleSessions(t *testing.T) {
	r := NewRegistry(testLogger(t))
	r.ttl = 10 * time.Millisecond

	token, _ := r.Begin()
	time.Sleep(25 * time.Millisecond)
	if got := r.Get(token); got != nil {
		t.Fatal("expired session still resolvable")
	}

	token2, _ := r.Begin()
	time.Sleep(25 * time.Millisecond)
	r.sweep()
	r.mu.Lock()
	_, alive := r.sessions[token2]
	r.mu.Unlock()
	if alive {
		t.Fatal("sweeper left an expired session behind")
	}
}
