package results

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "BenchResults.csv")
	svc, err := New(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc, path
}

func waitFor(t *testing.T, svc *Service, want EventType) Event {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-svc.Events():
			if event.Type == want {
				return event
			}
		case <-timeout:
			t.Fatalf("timeout waiting for %s event", want)
		}
	}
}

func TestNew(t *testing.T) {
	svc, path := newTestService(t)
	if svc.Path() != path {
		t.Errorf("Path() = %s, want %s", svc.Path(), path)
	}
	if svc.debounce != 20*time.Millisecond {
		t.Errorf("debounce = %v", svc.debounce)
	}
}

func TestNew_DefaultDebounce(t *testing.T) {
	svc, err := New(filepath.Join(t.TempDir(), "r.csv"), 0)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer svc.Close()

	if svc.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", svc.debounce, DefaultDebounce)
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "r.csv"), time.Millisecond)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestWatch_FileChange(t *testing.T) {
	svc, path := newTestService(t)

	// Several writes in a burst collapse into one event
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("Algo,Distance\n"), 0600); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
	}

	event := waitFor(t, svc, EventResultsChanged)
	if event.Path != path {
		t.Errorf("event path = %s, want %s", event.Path, path)
	}

	select {
	case extra := <-svc.Events():
		if extra.Type == EventResultsChanged {
			t.Error("burst produced more than one change event")
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	svc, path := newTestService(t)

	other := filepath.Join(filepath.Dir(path), "notes.txt")
	if err := os.WriteFile(other, []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	select {
	case event := <-svc.Events():
		t.Errorf("unexpected event %s for unrelated file", event.Type)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatch_FileRemoved(t *testing.T) {
	svc, path := newTestService(t)

	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	waitFor(t, svc, EventResultsChanged)

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	waitFor(t, svc, EventResultsRemoved)
}

func TestSendEvent_Full(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < eventBuffer+10; i++ {
		svc.sendEvent(Event{Type: EventResultsChanged})
	}

	if len(svc.Events()) != eventBuffer {
		t.Errorf("expected %d events, got %d", eventBuffer, len(svc.Events()))
	}
}

func TestClose_Twice(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
}

func TestEventType_String(t *testing.T) {
	tests := map[EventType]string{
		EventResultsChanged: "changed",
		EventResultsRemoved: "removed",
		EventError:          "error",
		EventType(9):        "unknown",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("EventType(%d).String() = %s, want %s", typ, got, want)
		}
	}
}
