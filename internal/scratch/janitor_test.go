package scratch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAgedFile(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}

	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("failed to age %s: %v", name, err)
	}
	return path
}

func TestSweep_RemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	stale := writeAgedFile(t, dir, "stale.mp4", 48*time.Hour)
	fresh := writeAgedFile(t, dir, "fresh.mp4", time.Minute)

	j := NewJanitor([]string{dir}, time.Hour, 24*time.Hour)
	removed := j.Sweep()

	if removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file still present")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file removed: %v", err)
	}
}

func TestSweep_MultipleDirectories(t *testing.T) {
	uploads := t.TempDir()
	converted := t.TempDir()
	writeAgedFile(t, uploads, "old-upload", 48*time.Hour)
	writeAgedFile(t, converted, "old-output.mp4", 48*time.Hour)

	j := NewJanitor([]string{uploads, converted}, time.Hour, 24*time.Hour)
	if removed := j.Sweep(); removed != 2 {
		t.Errorf("Sweep() = %d, want 2", removed)
	}
}

func TestSweep_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(sub, old, old); err != nil {
		t.Fatalf("failed to age subdir: %v", err)
	}

	j := NewJanitor([]string{dir}, time.Hour, 24*time.Hour)
	if removed := j.Sweep(); removed != 0 {
		t.Errorf("Sweep() = %d, want 0", removed)
	}
	if _, err := os.Stat(sub); err != nil {
		t.Errorf("subdirectory removed: %v", err)
	}
}

func TestSweep_MissingDirectory(t *testing.T) {
	j := NewJanitor([]string{"/nonexistent/scratch"}, time.Hour, 24*time.Hour)

	if removed := j.Sweep(); removed != 0 {
		t.Errorf("Sweep() = %d, want 0", removed)
	}
}

func TestJanitorStartStop(t *testing.T) {
	dir := t.TempDir()
	writeAgedFile(t, dir, "stale", 48*time.Hour)

	j := NewJanitor([]string{dir}, time.Hour, 24*time.Hour)
	j.Start()

	// The initial sweep runs immediately on Start
	deadline := time.Now().Add(3 * time.Second)
	for {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to read dir: %v", err)
		}
		if len(entries) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("initial sweep did not run")
		}
		time.Sleep(20 * time.Millisecond)
	}

	j.Stop()

	// Stop is idempotent
	j.Stop()
}
