package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	grammar := filepath.Join(dir, "expr.ebnf")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, grammar, `expr = "x" .`)

	changes := make(chan []string, 4)
	w, err := NewFileWatcher(20*time.Millisecond, func(paths []string) { changes <- paths }, grammar)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeFile(t, other, "ignored")
	for i := 0; i < 3; i++ {
		writeFile(t, grammar, `expr = "y" .`)
	}

	select {
	case paths := <-changes:
		abs, _ := filepath.Abs(grammar)
		if len(paths) != 1 || paths[0] != abs {
			t.Errorf("changed = %v, want [%s]", paths, abs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case paths := <-changes:
		t.Errorf("unexpected second notification %v", paths)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFileWatcherStop(t *testing.T) {
	dir := t.TempDir()
	grammar := filepath.Join(dir, "g.ebnf")
	writeFile(t, grammar, "")

	called := make(chan struct{}, 1)
	w, err := NewFileWatcher(10*time.Millisecond, func([]string) { called <- struct{}{} }, grammar)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()

	writeFile(t, grammar, "changed")
	select {
	case <-called:
		t.Error("callback ran after Stop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNewFileWatcherErrors(t *testing.T) {
	if _, err := NewFileWatcher(time.Millisecond, func([]string) {}); err == nil {
		t.Error("expected error without files")
	}

	w, err := NewFileWatcher(time.Millisecond, func([]string) {}, filepath.Join(t.TempDir(), "missing", "g.ebnf"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err == nil {
		w.Stop()
		t.Error("expected error watching a missing directory")
	}
}
