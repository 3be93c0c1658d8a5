package main

import (
	"fmt"
	"path/filepath"

	"github.com/go-toast/toast"
)

// NotificationManager handles desktop toast notifications. Pushes fail
// harmlessly on platforms without toast support; the failure is only shown
// in verbose mode.
type NotificationManager struct {
	appID    string
	iconPath string
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager() *NotificationManager {
	execPath, err := filepath.Abs(".")
	iconPath := ""
	if err == nil {
		iconPath = filepath.Join(execPath, "icon.png")
	}

	return &NotificationManager{
		appID:    "Pulsarctl.MouseControl",
		iconPath: iconPath,
	}
}

// ShowLowBattery warns that the mouse battery fell below the threshold.
func (nm *NotificationManager) ShowLowBattery(level int) {
	notification := toast.Notification{
		AppID:   nm.appID,
		Title:   "Pulsar X3 Battery Low",
		Message: fmt.Sprintf("🔋 Battery at %d%% - time to charge", level),
		Icon:    nm.iconPath,
	}

	if err := notification.Push(); err != nil && verbose {
		fmt.Printf("⚠️ Failed to show notification: %v\n", err)
	}
}

// ShowError shows error notification
func (nm *NotificationManager) ShowError(title, message string) {
	notification := toast.Notification{
		AppID:   nm.appID,
		Title:   title,
		Message: fmt.Sprintf("❌ %s", message),
		Icon:    nm.iconPath,
	}

	if err := notification.Push(); err != nil && verbose {
		fmt.Printf("⚠️ Failed to show notification: %v\n", err)
	}
}
