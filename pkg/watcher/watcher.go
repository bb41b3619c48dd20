// Package watcher re-runs analysis when the input export changes on
// disk. Spreadsheet tools save through rename-and-replace and emit bursts
// of events, so changes are debounced and the watch is re-armed on the
// parent directory.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the settle window after the last write event.
const DefaultDebounce = 400 * time.Millisecond

// InputWatcher watches one export file and invokes a callback after
// changes settle.
type InputWatcher struct {
	path     string
	onChange func()
	debounce *debouncer
	fsw      *fsnotify.Watcher
	done     chan struct{}
}

// Watch starts watching path, calling onChange after each settled burst
// of modifications. Close stops the watch.
func Watch(path string, settle time.Duration, onChange func()) (*InputWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("start file watcher: %w", err)
	}
	// Watch the directory: editors replace the file, which drops a watch
	// armed on the file itself.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &InputWatcher{
		path:     abs,
		onChange: onChange,
		debounce: newDebouncer(settle),
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *InputWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.debounce.trigger(w.onChange)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient on network shares; the next
			// event re-arms the debounce.
		}
	}
}

func (w *InputWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

// Close stops the watch and cancels any pending callback.
func (w *InputWatcher) Close() error {
	close(w.done)
	w.debounce.cancel()
	return w.fsw.Close()
}

// debouncer coalesces a burst of triggers into one callback after the
// settle window elapses. Only the most recently scheduled callback runs.
type debouncer struct {
	settle time.Duration
	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
}

func newDebouncer(settle time.Duration) *debouncer {
	if settle <= 0 {
		settle = DefaultDebounce
	}
	return &debouncer{settle: settle}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.settle, func() {
		d.mu.Lock()
		// A newer trigger superseded this one while the timer raced its
		// own Stop.
		stale := seq != d.seq
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if !stale {
			fn()
		}
	})
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
