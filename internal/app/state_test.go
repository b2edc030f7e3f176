package app

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/HeatXD/MinViz2024/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if s.GetAnalysis() != nil {
		t.Error("Analysis should be nil")
	}
	if !s.IsInitialLoading() {
		t.Error("Initial loading should be true")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading(ResourceAnalysis, true)
	if !s.loading.Analysis {
		t.Error("Analysis loading should be true")
	}
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true")
	}

	s.SetLoading(ResourceAnalysis, false)
	// Initial is still true
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading(ResourceInitial, false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}

	resources := s.GetLoadingResources()
	if len(resources) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", resources)
	}

	s.SetLoading(ResourceHistory, true)
	s.SetLoading(ResourceExport, true)
	resources = s.GetLoadingResources()
	if len(resources) != 2 || resources[0] != ResourceHistory || resources[1] != ResourceExport {
		t.Errorf("GetLoadingResources = %v, want [history export]", resources)
	}

	s.SetLoading("unknown", true)
	if len(s.GetLoadingResources()) != 2 {
		t.Error("unknown resources should be ignored")
	}
}

func TestState_IsLoading(t *testing.T) {
	s := NewState()
	if !s.IsLoading(ResourceInitial) {
		t.Error("Initial should be loading")
	}
	if s.IsLoading(ResourceExport) {
		t.Error("Export should not be loading")
	}

	s.SetLoading(ResourceExport, true)
	if !s.IsLoading(ResourceExport) {
		t.Error("Export should be loading")
	}
	if s.IsLoading("unknown") {
		t.Error("unknown resource should never be loading")
	}
}

func TestState_Analysis(t *testing.T) {
	s := NewState()
	if s.GetResults() != nil {
		t.Error("GetResults should be nil before the first load")
	}
	if s.TimeSinceUpdate() != 0 {
		t.Error("TimeSinceUpdate should be 0 before the first load")
	}

	s.SetLastError(errors.New("boom"))

	a := &models.Analysis{
		Source:  "BenchResults.csv",
		Results: []models.ConvergenceResult{{PointCount: 5}, {PointCount: 10}},
	}
	id := uuid.New()
	s.SetAnalysis(a, id)

	if s.GetAnalysis() != a {
		t.Error("GetAnalysis should return the stored analysis")
	}
	if s.GetRunID() != id {
		t.Errorf("GetRunID = %s, want %s", s.GetRunID(), id)
	}
	if len(s.GetResults()) != 2 {
		t.Errorf("GetResults len = %d, want 2", len(s.GetResults()))
	}
	if s.GetLastError() != nil {
		t.Error("SetAnalysis should clear the last error")
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}
}

func TestState_LastErrorKeepsAnalysis(t *testing.T) {
	s := NewState()
	a := &models.Analysis{Source: "x.csv"}
	s.SetAnalysis(a, uuid.Nil)

	err := errors.New("malformed row")
	s.SetLastError(err)

	if s.GetLastError() != err {
		t.Errorf("GetLastError = %v, want %v", s.GetLastError(), err)
	}
	if s.GetAnalysis() != a {
		t.Error("failed load must keep the previous analysis")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	// Expired
	s.notifications = append(s.notifications, Notification{
		ID:        "expired",
		CreatedAt: time.Now().Add(-2 * time.Minute),
		Duration:  time.Minute,
	})

	// Active
	s.notifications = append(s.notifications, Notification{
		ID:        "active",
		CreatedAt: time.Now(),
		Duration:  time.Minute,
	})

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != "active" {
		t.Errorf("Expected active notification, got %s", notifs[0].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID {
		t.Errorf("Expected ID %s, got %s", LoadingNotificationID, notifs[0].ID)
	}
	if notifs[0].Message != "loading..." {
		t.Errorf("Expected message loading..., got %s", notifs[0].Message)
	}

	// Update message
	s.SetLoadingNotification("still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification after update")
	}
	if notifs[0].Message != "still loading..." {
		t.Errorf("Expected message still loading..., got %s", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()
	for i := 0; i < maxNotifications+5; i++ {
		s.AddNotification(NotificationInfo, "n", time.Minute)
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("kept %d notifications, want %d", got, maxNotifications)
	}

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications should remove everything")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
