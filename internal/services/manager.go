// Package services provides service orchestration for the TUI.
package services

import (
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/google/uuid"

	"github.com/HeatXD/MinViz2024/internal/analysis"
	"github.com/HeatXD/MinViz2024/internal/config"
	"github.com/HeatXD/MinViz2024/internal/db"
	"github.com/HeatXD/MinViz2024/internal/ingest"
	"github.com/HeatXD/MinViz2024/internal/logger"
	"github.com/HeatXD/MinViz2024/internal/models"
	"github.com/HeatXD/MinViz2024/internal/services/results"
)

type (
	// AnalysisUpdatedEvent is emitted after the results file was analysed.
	AnalysisUpdatedEvent struct {
		Analysis *models.Analysis
		RunID    uuid.UUID
		Reload   bool
	}

	// ResultsRemovedEvent is emitted when the watched results file disappears.
	ResultsRemovedEvent struct {
		Path string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (AnalysisUpdatedEvent) isServiceEvent() {}
func (ResultsRemovedEvent) isServiceEvent()  {}
func (ErrorEvent) isServiceEvent()           {}

// Service names used in ErrorEvent.
const (
	ServiceResults  = "results"
	ServiceAnalysis = "analysis"
	ServiceArchive  = "archive"
)

// ErrNoDatabase is returned by archive operations when no database is open.
var ErrNoDatabase = errors.New("database not initialized")

// Manager loads and analyses the results file, archives every analysis and
// routes change events to subscribers.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	results     *results.Service
	database    *db.DB
	latest      *models.Analysis
	latestRun   uuid.UUID
	notify      func(title, body string) error
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	closeOnce   sync.Once
}

// NewManager opens the run archive and, when enabled, starts watching the
// results file.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
		notify:    desktopNotify,
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.WatchResults {
		m.results, err = results.New(cfg.ResultsPath, cfg.ReloadDebounce)
		if err != nil {
			_ = m.database.Close()
			return nil, err
		}
		go m.routeEvents()
	}

	return m, nil
}

func desktopNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// routeEvents turns watcher events into reloads and service events.
func (m *Manager) routeEvents() {
	for {
		select {
		case event, ok := <-m.results.Events():
			if !ok {
				return
			}
			m.handleResultsEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleResultsEvent(event results.Event) {
	switch event.Type {
	case results.EventResultsChanged:
		logger.Info("Results file changed, reloading", "path", event.Path)
		m.Reload()

	case results.EventResultsRemoved:
		logger.Warn("Results file removed", "path", event.Path)
		m.broadcast(ResultsRemovedEvent{Path: event.Path})

	case results.EventError:
		m.broadcast(ErrorEvent{Service: ServiceResults, Error: event.Error})
	}
}

// Analyze reads the configured results file, analyses it and archives the
// run. Archive failures are logged and broadcast but do not fail the
// analysis.
func (m *Manager) Analyze() (*models.Analysis, error) {
	records, err := ingest.ReadFile(m.cfg.ResultsPath)
	if err != nil {
		return nil, err
	}

	a, err := analysis.Analyze(m.cfg.ResultsPath, records)
	if err != nil {
		return nil, err
	}

	run := models.NewRun(a)
	if err := m.archive(&run); err != nil {
		logger.Error("failed to archive run", "error", err)
		m.broadcast(ErrorEvent{Service: ServiceArchive, Error: err})
		run.ID = uuid.Nil
	}

	m.mu.Lock()
	m.latest = a
	m.latestRun = run.ID
	m.mu.Unlock()

	logger.Info("Analysed results",
		"source", a.Source,
		"records", a.Records,
		"instances", a.Summary.Total,
		"wins", a.Summary.Wins,
	)
	return a, nil
}

func (m *Manager) archive(run *models.Run) error {
	if m.database == nil {
		return ErrNoDatabase
	}
	if err := m.database.SaveRun(run); err != nil {
		return err
	}
	if m.cfg.HistoryLimit > 0 {
		pruned, err := m.database.PruneRuns(m.cfg.HistoryLimit)
		if err != nil {
			return err
		}
		if pruned > 0 {
			logger.Debug("Pruned archived runs", "count", pruned)
		}
	}
	return nil
}

// Reload re-runs the analysis and broadcasts the outcome.
func (m *Manager) Reload() {
	a, err := m.Analyze()
	if err != nil {
		logger.Error("failed to reload results", "path", m.cfg.ResultsPath, "error", err)
		m.broadcast(ErrorEvent{Service: ServiceAnalysis, Error: err})
		m.notifyReload("Reload failed", err.Error())
		return
	}

	m.mu.RLock()
	runID := m.latestRun
	m.mu.RUnlock()

	m.broadcast(AnalysisUpdatedEvent{Analysis: a, RunID: runID, Reload: true})
	m.notifyReload("Results reloaded", fmt.Sprintf(
		"ACO beats NNH in %d of %d configurations (%.2f%%)",
		a.Summary.Wins, a.Summary.Total, a.Summary.SuccessRatePct,
	))
}

func (m *Manager) notifyReload(title, body string) {
	if !m.cfg.NotifyOnReload || m.notify == nil {
		return
	}
	if err := m.notify("MinViz: "+title, body); err != nil {
		logger.Warn("failed to send desktop notification", "error", err)
	}
}

// Latest returns the most recent successful analysis, or nil.
func (m *Manager) Latest() *models.Analysis {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// LatestRunID returns the archive ID of the most recent analysis. It is
// uuid.Nil when that analysis could not be archived.
func (m *Manager) LatestRunID() uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latestRun
}

// ListRuns returns up to limit archived runs, newest first.
func (m *Manager) ListRuns(limit int) ([]models.Run, error) {
	if m.database == nil {
		return nil, ErrNoDatabase
	}
	return m.database.ListRuns(limit)
}

// GetRun returns an archived run with its results.
func (m *Manager) GetRun(id uuid.UUID) (*models.Run, error) {
	if m.database == nil {
		return nil, ErrNoDatabase
	}
	return m.database.GetRun(id)
}

// DeleteRun removes an archived run.
func (m *Manager) DeleteRun(id uuid.UUID) error {
	if m.database == nil {
		return ErrNoDatabase
	}
	return m.database.DeleteRun(id)
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Watching reports whether the results file is being watched.
func (m *Manager) Watching() bool {
	return m.results != nil
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close stops the watcher and closes the database.
func (m *Manager) Close() error {
	var errs []error
	m.closeOnce.Do(func() {
		if m.stopChan != nil {
			close(m.stopChan)
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.results != nil {
			if err := m.results.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
