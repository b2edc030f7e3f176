// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HeatXD/MinViz2024/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// Loading resources.
const (
	ResourceInitial  = "initial"
	ResourceAnalysis = "analysis"
	ResourceHistory  = "history"
	ResourceExport   = "export"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Analysis bool
	History  bool
	Export   bool
}

// State is the data shared between the application model and its tabs.
type State struct {
	mu sync.RWMutex

	analysis    *models.Analysis
	runID       uuid.UUID
	lastError   error
	lastUpdated time.Time
	loading     LoadingState

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state waiting for the initial load.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		loading:       LoadingState{Initial: true},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceInitial:
		s.loading.Initial = loading
	case ResourceAnalysis:
		s.loading.Analysis = loading
	case ResourceHistory:
		s.loading.History = loading
	case ResourceExport:
		s.loading.Export = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.loading
	return l.Initial || l.Analysis || l.History || l.Export
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading.Initial
}

// IsLoading returns true if the given resource is loading.
func (s *State) IsLoading(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch resource {
	case ResourceInitial:
		return s.loading.Initial
	case ResourceAnalysis:
		return s.loading.Analysis
	case ResourceHistory:
		return s.loading.History
	case ResourceExport:
		return s.loading.Export
	}
	return false
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.loading.Initial {
		resources = append(resources, ResourceInitial)
	}
	if s.loading.Analysis {
		resources = append(resources, ResourceAnalysis)
	}
	if s.loading.History {
		resources = append(resources, ResourceHistory)
	}
	if s.loading.Export {
		resources = append(resources, ResourceExport)
	}
	return resources
}

// SetAnalysis stores the latest analysis and the archived run it was saved as.
// It clears any previous load error.
func (s *State) SetAnalysis(a *models.Analysis, runID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analysis = a
	s.runID = runID
	s.lastError = nil
	s.lastUpdated = time.Now()
}

// GetAnalysis returns the latest analysis, or nil before the first load.
func (s *State) GetAnalysis() *models.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

// GetRunID returns the run ID of the latest analysis.
func (s *State) GetRunID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// GetResults returns the convergence results of the latest analysis.
func (s *State) GetResults() []models.ConvergenceResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.analysis == nil {
		return nil
	}
	return s.analysis.Results
}

// SetLastError records the error of the last failed load. The previous
// analysis is kept so the dashboard keeps showing it.
func (s *State) SetLastError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
}

// GetLastError returns the error of the last failed load.
func (s *State) GetLastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last few notifications
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time an analysis was stored.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.lastUpdated)
}
