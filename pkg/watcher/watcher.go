// Package watcher notices workflows written to the store directory by other
// processes (or by this one) so clients can refresh their workflow list.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/workflow-canvas/pkg/logging"
)

// ChangeType is the kind of change seen on a stored workflow
type ChangeType int

const (
	ChangeTypeWritten ChangeType = iota
	ChangeTypeRemoved
)

func (t ChangeType) String() string {
	if t == ChangeTypeRemoved {
		return "removed"
	}
	return "written"
}

// ChangeEvent is a batch of changes of one type
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// Matcher selects the file names the watcher reports.
type Matcher func(name string) bool

// ExtMatcher matches file names ending in ext, ignoring hidden temp files.
func ExtMatcher(ext string) Matcher {
	return func(name string) bool {
		return filepath.Ext(name) == ext && name[0] != '.'
	}
}

// NameMatcher matches one exact file name, e.g. a database file.
func NameMatcher(names ...string) Matcher {
	return func(name string) bool {
		for _, n := range names {
			if name == n {
				return true
			}
		}
		return false
	}
}

const batchWindow = 100 * time.Millisecond

// FileWatcher watches one directory, non-recursively.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	match   Matcher
	events  chan ChangeEvent
}

// NewFileWatcher creates a watcher for dir. Nothing is watched until Start.
func NewFileWatcher(dir string, match Matcher) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		watcher: w,
		dir:     dir,
		match:   match,
		events:  make(chan ChangeEvent, 16),
	}, nil
}

// Start adds the directory and processes events until ctx is done, at which
// point the Events channel is closed.
func (fw *FileWatcher) Start(ctx context.Context) error {
	if err := fw.watcher.Add(fw.dir); err != nil {
		fw.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", fw.dir, err)
	}
	logging.Info("watching workflow store", "path", fw.dir)

	go fw.processEvents(ctx)
	return nil
}

// processEvents groups raw events into per-type batches
func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer fw.watcher.Close()

	pending := map[ChangeType][]string{}
	flushTimer := time.NewTimer(batchWindow)
	flushTimer.Stop()

	flush := func() {
		for _, t := range []ChangeType{ChangeTypeWritten, ChangeTypeRemoved} {
			if len(pending[t]) == 0 {
				continue
			}
			select {
			case fw.events <- ChangeEvent{Type: t, Paths: pending[t], Timestamp: time.Now()}:
			case <-ctx.Done():
				return
			}
		}
		pending = map[ChangeType][]string{}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				flush()
				return
			}
			if !fw.match(filepath.Base(event.Name)) {
				continue
			}

			t := ChangeTypeWritten
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				t = ChangeTypeRemoved
			} else if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			logging.Trace("store file changed", "path", event.Name, "op", event.Op.String())
			pending[t] = append(pending[t], event.Name)
			flushTimer.Reset(batchWindow)

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change batches
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}
