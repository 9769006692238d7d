package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"nickandperla.net/calcpad/internal/store"
)

// recordingBackend counts successful saves and fails every save once err
// is set.
type recordingBackend struct {
	*store.Memory
	saves int
	err   error
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{Memory: store.NewMemory()}
}

func (b *recordingBackend) Save(entries []string) error {
	if b.err != nil {
		return b.err
	}
	b.saves++
	return b.Memory.Save(entries)
}

func TestAppendEvictsOldest(t *testing.T) {
	l := New(store.NewMemory(), WithMaxEntries(20))

	for i := 1; i <= 21; i++ {
		l.Append(fmt.Sprintf("entry %d", i))
	}

	entries := l.Entries()
	if len(entries) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e == "entry 1" {
			t.Error("entry 1 should have been evicted")
		}
	}
	if entries[0] != "entry 2" {
		t.Errorf("expected oldest 'entry 2', got '%s'", entries[0])
	}
	if entries[19] != "entry 21" {
		t.Errorf("expected newest 'entry 21', got '%s'", entries[19])
	}
}

func TestAppendAtCapacityKeepsLength(t *testing.T) {
	l := New(store.NewMemory(), WithMaxEntries(3))
	for i := 0; i < 10; i++ {
		l.Append(fmt.Sprintf("e%d", i))
		if l.Len() > 3 {
			t.Fatalf("length %d exceeds capacity", l.Len())
		}
	}
	want := []string{"e7", "e8", "e9"}
	if got := l.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAppendIgnoresBlank(t *testing.T) {
	backend := newRecordingBackend()
	l := New(backend)

	l.Append("")
	l.Append("   \t\n")
	if l.Len() != 0 {
		t.Errorf("expected blank entries to be ignored, got %d", l.Len())
	}
	if backend.saves != 0 {
		t.Errorf("blank append should not persist, got %d saves", backend.saves)
	}

	l.Append("  2 + 2 = 4  ")
	if last, _ := l.Last(); last != "2 + 2 = 4" {
		t.Errorf("expected trimmed entry, got '%s'", last)
	}
}

func TestAppendPersistsFullLog(t *testing.T) {
	backend := newRecordingBackend()
	l := New(backend, WithMaxEntries(2))

	l.Append("a")
	l.Append("b")
	l.Append("c")

	saved, _ := backend.Load()
	if !reflect.DeepEqual(saved, []string{"b", "c"}) {
		t.Errorf("expected persisted [b c], got %v", saved)
	}
	if backend.saves != 3 {
		t.Errorf("expected one save per append, got %d", backend.saves)
	}
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	backend := newRecordingBackend()
	backend.err = errors.New("disk full")
	l := New(backend)

	l.Append("1 + 1 = 2")
	if l.Len() != 1 {
		t.Fatalf("expected entry kept in memory, got %d", l.Len())
	}
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("expected clear to work without backend, got %d", l.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := New(store.NewJSONFile(filepath.Join(t.TempDir(), "history.json")))
	if l.Len() != 0 {
		t.Errorf("expected empty log, got %v", l.Entries())
	}
}

func TestLoadCorruptFile(t *testing.T) {
	for _, payload := range []string{`{"not": "a list"}`, `["a", null, "b"]`} {
		path := filepath.Join(t.TempDir(), "history.json")
		if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		l := New(store.NewJSONFile(path))
		if l.Len() != 0 {
			t.Errorf("%s: expected empty log, got %q", payload, l.Entries())
		}
	}
}

func TestLoadKeepsNewest(t *testing.T) {
	var stored []string
	for i := 1; i <= 30; i++ {
		stored = append(stored, fmt.Sprintf("e%d", i))
	}
	l := New(store.NewMemory(stored...), WithMaxEntries(20))

	entries := l.Entries()
	if len(entries) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(entries))
	}
	if !reflect.DeepEqual(entries, stored[10:]) {
		t.Errorf("expected last 20 in order, got %v", entries)
	}
}

func TestClearThenReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	l := New(store.NewJSONFile(path))
	l.Append("3 * 3 = 9")
	l.Append("sqrt(16) = 4.0000")
	l.Clear()

	reloaded := New(store.NewJSONFile(path))
	if reloaded.Len() != 0 {
		t.Errorf("expected empty log after clear, got %v", reloaded.Entries())
	}
}

func TestReloadFromJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	l := New(store.NewJSONFile(path), WithMaxEntries(50))
	l.Append("a")
	l.Append("b")

	reloaded := New(store.NewJSONFile(path), WithMaxEntries(50))
	if got := reloaded.Entries(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}
	if reloaded.MaxEntries() != 50 {
		t.Errorf("expected capacity 50, got %d", reloaded.MaxEntries())
	}
}

func TestDefaultsAndString(t *testing.T) {
	l := New(nil)
	if l.MaxEntries() != DefaultMaxEntries {
		t.Errorf("expected default capacity %d, got %d", DefaultMaxEntries, l.MaxEntries())
	}
	if _, ok := l.Last(); ok {
		t.Error("expected no last entry")
	}
	l.Append("a")
	l.Append("b")
	if l.String() != "a\nb" {
		t.Errorf("expected 'a\\nb', got %q", l.String())
	}

	// Entries returns a copy
	e := l.Entries()
	e[0] = "mutated"
	if l.Entries()[0] != "a" {
		t.Error("Entries leaked internal slice")
	}
}
