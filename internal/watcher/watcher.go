// Package watcher reports filesystem changes under watched roots so
// the UI can rescan trees that went stale.
package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event names a path that changed on disk.
type Event struct {
	Path string
}

// Watcher debounces fsnotify events per path: rapid successive writes
// to the same file produce one Event.
type Watcher struct {
	fsw      *fsnotify.Watcher
	events   chan Event
	done     chan struct{}
	debounce time.Duration
}

func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start filesystem watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		events:   make(chan Event, 64),
		done:     make(chan struct{}),
		debounce: 200 * time.Millisecond,
	}
	go w.loop()
	return w, nil
}

// Add starts watching a directory.
func (w *Watcher) Add(path string) error {
	return w.fsw.Add(path)
}

// Remove stops watching a directory.
func (w *Watcher) Remove(path string) error {
	return w.fsw.Remove(path)
}

// Events delivers debounced change notifications. The channel closes
// when the watcher is closed.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer close(w.events)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if len(pending) == 0 {
				timer.Reset(w.debounce)
			}
			pending[ev.Name] = struct{}{}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-timer.C:
			for path := range pending {
				select {
				case w.events <- Event{Path: path}:
				case <-w.done:
					return
				}
			}
			pending = make(map[string]struct{})
		}
	}
}
