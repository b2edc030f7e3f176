package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/HeatXD/MinViz2024/internal/models"
	"github.com/HeatXD/MinViz2024/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// AnalysisLoadedMsg carries the outcome of analysing the results file.
type AnalysisLoadedMsg struct {
	Analysis *models.Analysis
	Error    error
	RunID    uuid.UUID
	Reload   bool
}

// RunsLoadedMsg carries archived runs, newest first.
type RunsLoadedMsg struct {
	Error error
	Runs  []models.Run
}

// DeleteRunMsg requests deletion of an archived run.
type DeleteRunMsg struct {
	ID uuid.UUID
}

// RunDeletedMsg contains the result of a run deletion.
type RunDeletedMsg struct {
	Error error
	ID    uuid.UUID
}

// ExportChartsMsg requests writing the chart views as PNG files.
type ExportChartsMsg struct{}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Error error
	Dir   string
	Paths []string
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "analysis" or "history"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg is sent after the active tab changed.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
