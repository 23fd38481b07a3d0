package spark

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kayz/motion/internal/logger"
)

// maxWalkDepth bounds recursive traversal to guard against symlink
// cycles or pathological trees.
const maxWalkDepth = 10

// defaultDebounce is how long to wait for more changes before rebuilding.
const defaultDebounce = 500 * time.Millisecond

// Snapshot is one complete, ordered view of the watched root. Consumers
// always see either the previous complete snapshot or the next one,
// never an interleaving.
type Snapshot struct {
	Records []Record
	Count   int
}

// Watcher maintains a live view of the spark files under the watched
// root. Every change triggers a full rebuild off the caller's goroutine;
// the result is installed as one atomic swap and published on Snapshots.
type Watcher struct {
	root       string
	extensions map[string]bool
	debounce   time.Duration

	mu      sync.Mutex
	started bool
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc

	stateMu sync.RWMutex
	current Snapshot

	snapshots chan Snapshot

	pendingMu sync.Mutex
	pending   bool
}

// NewWatcher creates a watcher for root. Extensions filters which files
// count as sparks; empty means all files.
func NewWatcher(root string, extensions []string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		root:       root,
		extensions: extensionSet(extensions),
		debounce:   debounce,
		snapshots:  make(chan Snapshot, 1),
	}
}

func extensionSet(extensions []string) map[string]bool {
	if len(extensions) == 0 {
		return nil
	}
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[strings.ToLower(ext)] = true
	}
	return set
}

// Snapshots returns the channel on which complete rebuilds are published.
// Only the latest snapshot is retained when the consumer lags.
func (w *Watcher) Snapshots() <-chan Snapshot {
	return w.snapshots
}

// Current returns the last published snapshot.
func (w *Watcher) Current() Snapshot {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return w.current
}

// Start begins watching. It is a no-op if already started. A missing
// root is not an error: the watcher publishes an empty snapshot and
// picks the directory up once it appears on a later Start.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.fsw = fsw
	w.cancel = cancel
	w.started = true

	if err := w.addWatchesRecursive(w.root, 0); err != nil {
		logger.Warn("sparks root not watchable, publishing empty set: %v", err)
	}

	go w.processEvents(ctx, fsw)

	// Initial gather: rebuild once so consumers see the current file set
	// without waiting for a change event.
	go w.rebuild()

	logger.Info("spark watcher started: %s", w.root)
	return nil
}

// Stop ends watching and releases the file-system subscriptions. It is
// a no-op if not started. Start may be called again afterwards.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.cancel()
	w.fsw.Close()
	w.fsw = nil
	w.cancel = nil
	w.started = false
	logger.Info("spark watcher stopped")
}

// addWatchesRecursive registers fsnotify watches on root and its
// subdirectories down to the depth bound.
func (w *Watcher) addWatchesRecursive(dir string, level int) error {
	if level == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	} else {
		if err := w.fsw.Add(dir); err != nil {
			logger.Warn("failed to watch directory %s: %v", dir, err)
			return nil
		}
	}

	if level >= maxWalkDepth {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() {
			w.addWatchesRecursive(filepath.Join(dir, entry.Name()), level+1)
		}
	}
	return nil
}

// processEvents coalesces change notifications and triggers rebuilds.
func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("spark watcher error: %v", err)

		case <-ticker.C:
			w.pendingMu.Lock()
			dirty := w.pending
			w.pending = false
			w.pendingMu.Unlock()
			if dirty {
				w.rebuild()
			}
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	// New directories need their own watch so nested changes surface.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fsw.Add(event.Name); err != nil {
				logger.Warn("failed to watch new directory %s: %v", event.Name, err)
			}
			w.markDirty()
			return
		}
	}

	if w.extensions != nil && !w.extensions[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}

	w.markDirty()
}

func (w *Watcher) markDirty() {
	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()
}

// rebuild enumerates the watched root, builds the full record list and
// installs it atomically.
func (w *Watcher) rebuild() {
	snapshot := BuildSnapshot(w.root, w.extensions)
	w.publish(snapshot)
}

func (w *Watcher) publish(snapshot Snapshot) {
	w.stateMu.Lock()
	w.current = snapshot
	w.stateMu.Unlock()

	// Keep only the latest snapshot when the consumer lags.
	for {
		select {
		case w.snapshots <- snapshot:
			return
		default:
			select {
			case <-w.snapshots:
			default:
			}
		}
	}
}

// fileEntry pairs a candidate path with its change timestamp.
type fileEntry struct {
	path    string
	modTime time.Time
}

// BuildSnapshot enumerates root and returns the complete ordered record
// list. Directories and unreadable files are skipped silently; a
// missing root yields an empty snapshot. The same path serves both the
// initial gather and every later update.
func BuildSnapshot(root string, extensions map[string]bool) Snapshot {
	var entries []fileEntry
	collectFiles(root, extensions, 0, &entries)

	// Newest first by creation time; ties broken by path so rebuilds of
	// an unchanged tree publish identical ordering.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].modTime.Equal(entries[j].modTime) {
			return entries[i].path < entries[j].path
		}
		return entries[i].modTime.After(entries[j].modTime)
	})

	records := make([]Record, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.path] {
			continue
		}
		seen[entry.path] = true
		if record, ok := readRecord(entry.path, entry.modTime); ok {
			records = append(records, record)
		}
	}

	// Front matter dates can reorder records relative to file times.
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedDate.Equal(records[j].CreatedDate) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedDate.After(records[j].CreatedDate)
	})

	return Snapshot{Records: records, Count: len(records)}
}

// LoadOnce performs a single enumeration of root without watching.
func LoadOnce(root string, extensions []string) Snapshot {
	return BuildSnapshot(root, extensionSet(extensions))
}

// collectFiles walks dir up to the depth bound, appending regular files
// to entries. Directory read errors are swallowed.
func collectFiles(dir string, extensions map[string]bool, level int, entries *[]fileEntry) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, item := range items {
		path := filepath.Join(dir, item.Name())
		if item.IsDir() {
			if level < maxWalkDepth {
				collectFiles(path, extensions, level+1, entries)
			}
			continue
		}
		if !item.Type().IsRegular() {
			continue
		}
		if extensions != nil && !extensions[strings.ToLower(filepath.Ext(path))] {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		*entries = append(*entries, fileEntry{path: abs, modTime: info.ModTime()})
	}
}
