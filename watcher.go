package main

import (
	"fmt"
	"time"
)

// batteryReader is the slice of pulsar.Device the watcher needs.
type batteryReader interface {
	Battery() (int, error)
}

type notifier interface {
	ShowLowBattery(level int)
	ShowError(title, message string)
}

// batteryFailureLimit is how many consecutive read failures the watcher
// tolerates before raising an error notification. Single misses are normal
// on the wireless link.
const batteryFailureLimit = 3

// BatteryWatcher polls the battery on an interval and notifies once each
// time the level crosses below the threshold.
type BatteryWatcher struct {
	mouse         batteryReader
	interval      time.Duration
	threshold     int
	notifications notifier
	isLow         bool
	failCount     int
	ticker        *time.Ticker
	stopCh        chan struct{}
}

func NewBatteryWatcher(mouse batteryReader, interval time.Duration, threshold int, notifications notifier) *BatteryWatcher {
	return &BatteryWatcher{
		mouse:         mouse,
		interval:      interval,
		threshold:     threshold,
		notifications: notifications,
		stopCh:        make(chan struct{}),
	}
}

func (bw *BatteryWatcher) Start() {
	bw.ticker = time.NewTicker(bw.interval)

	go func() {
		for {
			select {
			case <-bw.ticker.C:
				bw.checkBattery()
			case <-bw.stopCh:
				return
			}
		}
	}()
}

func (bw *BatteryWatcher) Stop() {
	if bw.ticker != nil {
		bw.ticker.Stop()
	}
	close(bw.stopCh)
}

func (bw *BatteryWatcher) checkBattery() {
	level, err := bw.mouse.Battery()
	if err != nil {
		bw.failCount++
		if verbose {
			fmt.Printf("❌ Error reading battery: %v\n", err)
		}
		if bw.failCount == batteryFailureLimit {
			fmt.Printf("❌ Battery unreadable after %d attempts: %v\n", bw.failCount, err)
			bw.notifications.ShowError("Pulsar X3", fmt.Sprintf("Cannot read battery: %v", err))
		}
		return
	}
	bw.failCount = 0

	if verbose {
		fmt.Printf("🔋 Battery: %d%%\n", level)
	}

	if level < bw.threshold && !bw.isLow {
		fmt.Printf("⚠️ Battery low: %d%%\n", level)
		bw.isLow = true
		bw.notifications.ShowLowBattery(level)
	} else if level >= bw.threshold && bw.isLow {
		bw.isLow = false
	}
}
