package audit

import (
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	m, err := New(filepath.Join(dir, "audit.db"), filepath.Join(dir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRecordThenRecent(t *testing.T) {
	m := newTestManager(t)

	for _, cmd := range []string{"help", "clear", "top"} {
		if err := m.Record(Entry{Command: cmd, Args: "", Result: "ok"}); err != nil {
			t.Fatalf("Record(%q) failed: %v", cmd, err)
		}
	}

	recent, err := m.Recent(2)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len(recent) = %d, want 2", len(recent))
	}
	if recent[0].Command != "top" || recent[1].Command != "clear" {
		t.Fatalf("recent = %+v, want [top, clear] (reverse-chronological)", recent)
	}
}

func TestSearchUnavailableWhenFTSDisabled(t *testing.T) {
	m := newTestManager(t)
	m.searchAvail = false

	if _, err := m.Search("top"); err != ErrSearchUnavailable {
		t.Fatalf("Search() err = %v, want ErrSearchUnavailable", err)
	}
}

func TestSearchFindsRecordedArgs(t *testing.T) {
	if !CheckFTS() {
		t.Skip("sqlite3 build lacks FTS5")
	}
	m := newTestManager(t)
	if err := m.Record(Entry{Command: "pkill", Args: "-a topworker", Result: "ok"}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	results, err := m.Search("topworker")
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) != 1 || results[0].Command != "pkill" {
		t.Fatalf("results = %+v, want one pkill hit", results)
	}
}
