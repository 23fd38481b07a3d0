package spark

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSpark(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadOnceSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeSpark(t, dir, "old.md", "---\ndate: 2025-01-01 10:00:00\n---\nold")
	writeSpark(t, dir, "new.md", "---\ndate: 2025-08-01 10:00:00\n---\nnew")
	writeSpark(t, dir, "mid.md", "---\ndate: 2025-04-01 10:00:00\n---\nmid")

	snapshot := LoadOnce(dir, []string{".md"})

	if snapshot.Count != 3 {
		t.Fatalf("count = %d, want 3", snapshot.Count)
	}
	for i := 1; i < len(snapshot.Records); i++ {
		prev, cur := snapshot.Records[i-1], snapshot.Records[i]
		if cur.CreatedDate.After(prev.CreatedDate) {
			t.Errorf("records out of order: %s before %s", prev.ID, cur.ID)
		}
	}
	if filepath.Base(snapshot.Records[0].ID) != "new.md" {
		t.Errorf("first record = %s, want new.md", snapshot.Records[0].ID)
	}
}

func TestLoadOnceMissingRoot(t *testing.T) {
	snapshot := LoadOnce(filepath.Join(t.TempDir(), "does-not-exist"), nil)

	if snapshot.Count != 0 || len(snapshot.Records) != 0 {
		t.Fatalf("missing root must yield an empty snapshot, got %d records", snapshot.Count)
	}
}

func TestLoadOnceSkipsDirectoriesAndFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	writeSpark(t, dir, "keep.md", "kept")
	writeSpark(t, dir, "skip.bin", "skipped")
	if err := os.Mkdir(filepath.Join(dir, "nested.md"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	snapshot := LoadOnce(dir, []string{".md"})

	if snapshot.Count != 1 {
		t.Fatalf("count = %d, want 1", snapshot.Count)
	}
	if filepath.Base(snapshot.Records[0].ID) != "keep.md" {
		t.Errorf("record = %s, want keep.md", snapshot.Records[0].ID)
	}
}

func TestLoadOnceDescendsNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeSpark(t, nested, "deep.md", "deep note")
	writeSpark(t, dir, "top.md", "top note")

	snapshot := LoadOnce(dir, []string{".md"})

	if snapshot.Count != 2 {
		t.Fatalf("count = %d, want 2", snapshot.Count)
	}
}

func TestLoadOnceDepthBound(t *testing.T) {
	dir := t.TempDir()
	deep := dir
	for i := 0; i <= maxWalkDepth; i++ {
		deep = filepath.Join(deep, "d")
	}
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeSpark(t, deep, "too-deep.md", "unreachable")

	snapshot := LoadOnce(dir, []string{".md"})

	if snapshot.Count != 0 {
		t.Fatalf("count = %d, want 0: files beyond the depth bound must be ignored", snapshot.Count)
	}
}

func TestLoadOnceNoDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	writeSpark(t, dir, "a.md", "a")
	writeSpark(t, dir, "b.md", "b")

	snapshot := LoadOnce(dir, nil)

	seen := make(map[string]bool)
	for _, record := range snapshot.Records {
		if seen[record.ID] {
			t.Fatalf("duplicate id: %s", record.ID)
		}
		seen[record.ID] = true
	}
}

func TestWatcherStartStopIdempotent(t *testing.T) {
	w := NewWatcher(t.TempDir(), []string{".md"}, 10*time.Millisecond)

	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("second Start must be a no-op: %v", err)
	}
	w.Stop()
	w.Stop()

	// The watcher can be re-armed after a stop.
	if err := w.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	w.Stop()
}

func TestWatcherPublishesRebuildOnChange(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, []string{".md"}, 10*time.Millisecond)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Initial gather publishes the (empty) current set.
	waitForSnapshot(t, w, 0)

	writeSpark(t, dir, "fresh.md", "fresh note")
	waitForSnapshot(t, w, 1)

	current := w.Current()
	if current.Count != 1 {
		t.Fatalf("Current().Count = %d, want 1", current.Count)
	}
}

func TestWatcherMissingRootPublishesEmpty(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "absent"), nil, 10*time.Millisecond)
	if err := w.Start(); err != nil {
		t.Fatalf("Start with missing root must not fail: %v", err)
	}
	defer w.Stop()

	waitForSnapshot(t, w, 0)
}

func waitForSnapshot(t *testing.T, w *Watcher, wantCount int) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case snapshot := <-w.Snapshots():
			if snapshot.Count == wantCount {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for snapshot with %d records", wantCount)
		}
	}
}
