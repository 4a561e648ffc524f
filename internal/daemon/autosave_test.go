package daemon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeDesk struct {
	mu     sync.Mutex
	names  []string
	wrote  bool
	err    error
	panics bool
}

func (f *fakeDesk) Checkpoint(name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("boom")
	}
	f.names = append(f.names, name)
	return f.wrote, f.err
}

func (f *fakeDesk) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.names)
}

func TestNewAutosaver_Defaults(t *testing.T) {
	a := NewAutosaver(AutosaverConfig{}, &fakeDesk{})
	if a.interval != 30*time.Second {
		t.Fatalf("expected default interval 30s, got %v", a.interval)
	}
	if a.name != SessionName {
		t.Fatalf("expected default name %q, got %q", SessionName, a.name)
	}
}

func TestSaveNow(t *testing.T) {
	tests := []struct {
		name string
		desk *fakeDesk
		want bool
	}{
		{"written", &fakeDesk{wrote: true}, true},
		{"unchanged", &fakeDesk{}, false},
		{"error", &fakeDesk{wrote: true, err: errors.New("disk full")}, false},
		{"panic", &fakeDesk{panics: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAutosaver(AutosaverConfig{Name: "s"}, tt.desk)
			if got := a.SaveNow(); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRun_SavesOnTickAndExit(t *testing.T) {
	desk := &fakeDesk{wrote: true}
	a := NewAutosaver(AutosaverConfig{Interval: 10 * time.Millisecond}, desk)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for desk.calls() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if desk.calls() < 2 {
		t.Fatalf("expected at least 2 ticks, got %d", desk.calls())
	}

	before := desk.calls()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if desk.calls() <= before {
		t.Fatalf("expected a final checkpoint on exit")
	}
	if desk.names[0] != SessionName {
		t.Fatalf("expected checkpoint name %q, got %q", SessionName, desk.names[0])
	}
}
