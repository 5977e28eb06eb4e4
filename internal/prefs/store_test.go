package prefs

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"), testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.db")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before Open")
	}

	s, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("database file should exist after Open")
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open("", testLogger()); err == nil {
		t.Fatal("Open should fail on empty path")
	}
}

func TestBool_Unset(t *testing.T) {
	s := openTestStore(t)

	if v, ok := s.Bool("never.written"); ok || v {
		t.Errorf("Bool(unset) = (%v, %v), want (false, false)", v, ok)
	}
}

func TestSetBool_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	s.SetBool("flag", true)
	if v, ok := s.Bool("flag"); !ok || !v {
		t.Errorf("Bool = (%v, %v), want (true, true)", v, ok)
	}

	s.SetBool("flag", false)
	if v, ok := s.Bool("flag"); !ok || v {
		t.Errorf("Bool after overwrite = (%v, %v), want (false, true)", v, ok)
	}
}

func TestBool_NonBoolValue(t *testing.T) {
	s := openTestStore(t)

	s.SetString("mixed", "not-a-bool")
	if v, ok := s.Bool("mixed"); ok || v {
		t.Errorf("Bool(non-bool) = (%v, %v), want (false, false)", v, ok)
	}
}

func TestSetString_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	s.SetString("device", "d-123")
	if v, ok := s.String("device"); !ok || v != "d-123" {
		t.Errorf("String = (%q, %v), want (\"d-123\", true)", v, ok)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	s1, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	s1.SetBool("seen", true)
	s1.SetString("device", "d-456")
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s2.Close()

	if v, ok := s2.Bool("seen"); !ok || !v {
		t.Errorf("Bool after reopen = (%v, %v), want (true, true)", v, ok)
	}
	if v, ok := s2.String("device"); !ok || v != "d-456" {
		t.Errorf("String after reopen = (%q, %v), want (\"d-456\", true)", v, ok)
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)

	s.SetBool("a", true)
	s.SetString("b", "x")
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, ok := s.Bool("a"); ok {
		t.Error("Bool(a) still set after Clear")
	}
	if _, ok := s.String("b"); ok {
		t.Error("String(b) still set after Clear")
	}

	// The store keeps working after a clear.
	s.SetBool("a", false)
	if v, ok := s.Bool("a"); !ok || v {
		t.Errorf("Bool after Clear+Set = (%v, %v), want (false, true)", v, ok)
	}
}

func TestDegradedStore_ReadsAsUnset(t *testing.T) {
	s := openTestStore(t)
	s.SetBool("flag", true)

	// Simulate profile storage dying mid-session.
	s.db.Close()

	if v, ok := s.Bool("flag"); ok || v {
		t.Errorf("Bool on closed db = (%v, %v), want (false, false)", v, ok)
	}
	// Writes must not panic either.
	s.SetBool("flag", false)
}
