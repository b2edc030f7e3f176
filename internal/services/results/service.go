// Package results watches a benchmark results file for changes.
package results

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/HeatXD/MinViz2024/internal/logger"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 250 * time.Millisecond

const eventBuffer = 100

// Event represents a results watcher event.
type Event struct {
	Error error
	Path  string
	Type  EventType
}

// EventType defines the type of results event.
type EventType int

const (
	// EventResultsChanged fires once a burst of writes to the file settles.
	EventResultsChanged EventType = iota
	// EventResultsRemoved fires when the file is removed or renamed away.
	EventResultsRemoved
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventResultsChanged:
		return "changed"
	case EventResultsRemoved:
		return "removed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Service watches one results file and reports debounced changes.
type Service struct {
	mu            sync.Mutex
	filePath      string
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New starts watching filePath. The file itself need not exist yet but its
// directory must.
func New(filePath string, debounce time.Duration) (*Service, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve results path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	s := &Service{
		filePath:  abs,
		debounce:  debounce,
		eventChan: make(chan Event, eventBuffer),
		stopChan:  make(chan struct{}),
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	logger.Debug("Watching results file", "path", abs, "debounce", debounce)
	return s, nil
}

// Events returns the event channel for subscribing to file changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Path returns the absolute path of the watched file.
func (s *Service) Path() string {
	return s.filePath
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory so replacing the file by rename is seen too
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	name := filepath.Base(s.filePath)

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}

			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				s.schedule()
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				s.cancel()
				s.sendEvent(Event{Type: EventResultsRemoved, Path: s.filePath})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Path: s.filePath, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// schedule restarts the debounce timer.
func (s *Service) schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.sendEvent(Event{Type: EventResultsChanged, Path: s.filePath})
	})
}

func (s *Service) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.cancel()
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
