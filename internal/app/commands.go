package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/HeatXD/MinViz2024/internal/charts"
	"github.com/HeatXD/MinViz2024/internal/config"
	"github.com/HeatXD/MinViz2024/internal/models"
	"github.com/HeatXD/MinViz2024/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// DefaultHistoryLimit is how many archived runs the history tab lists.
	DefaultHistoryLimit = 50
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadAnalysisCmd returns a command that analyses the results file.
func loadAnalysisCmd(mgr *services.Manager, reload bool) tea.Cmd {
	return func() tea.Msg {
		a, err := mgr.Analyze()
		if err != nil {
			return AnalysisLoadedMsg{Error: err, Reload: reload}
		}
		return AnalysisLoadedMsg{Analysis: a, RunID: mgr.LatestRunID(), Reload: reload}
	}
}

// loadRunsCmd returns a command that lists archived runs.
func loadRunsCmd(mgr *services.Manager, limit int) tea.Cmd {
	return func() tea.Msg {
		runs, err := mgr.ListRuns(limit)
		return RunsLoadedMsg{Runs: runs, Error: err}
	}
}

// deleteRunCmd returns a command that deletes an archived run.
func deleteRunCmd(mgr *services.Manager, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		return RunDeletedMsg{ID: id, Error: mgr.DeleteRun(id)}
	}
}

// exportChartsCmd returns a command that writes the chart views as PNG files.
func exportChartsCmd(cfg *config.Config, results []models.ConvergenceResult) tea.Cmd {
	return func() tea.Msg {
		paths, err := charts.ExportPNG(cfg.ChartDir, charts.Views(results), cfg.ChartWidth, cfg.ChartHeight)
		return ExportResultMsg{Dir: cfg.ChartDir, Paths: paths, Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// delayedCmd returns a command that sends a message after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return msg
	})
}

// Commands provides a public interface to the command functions for tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// LoadAnalysis returns a command that analyses the results file.
func (c *Commands) LoadAnalysis() tea.Cmd {
	return loadAnalysisCmd(c.manager, false)
}

// LoadRuns returns a command that lists archived runs.
func (c *Commands) LoadRuns(limit int) tea.Cmd {
	return loadRunsCmd(c.manager, limit)
}

// DeleteRun returns a command that deletes an archived run.
func (c *Commands) DeleteRun(id uuid.UUID) tea.Cmd {
	return deleteRunCmd(c.manager, id)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// Delayed returns a command that sends a message after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return delayedCmd(delay, msg)
}
