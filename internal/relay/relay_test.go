package relay

import (
	"errors"
	"testing"
)

func TestMemory_SetIsIdempotent(t *testing.T) {
	m := NewMemory()

	for _, on := range []bool{true, true, false, false, true} {
		if err := m.Set(on); err != nil {
			t.Fatalf("Set(%v): %v", on, err)
		}
	}
	if !m.State() {
		t.Fatalf("expected relay ON")
	}
	if m.Switches() != 3 {
		t.Fatalf("switches: got %d, want 3", m.Switches())
	}
}

func TestNew_SelectsDriver(t *testing.T) {
	d, err := New(Options{Driver: " Memory "})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := d.(*Memory); !ok {
		t.Fatalf("expected *Memory, got %T", d)
	}

	if _, err := New(Options{Driver: "serial"}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}
