package config

import "time"

// WatcherConfig holds configuration for the status watcher.
type WatcherConfig struct {
	IntervalSeconds int `json:"interval_seconds"`
	// RSSIWindowSamples sizes the smoothing window for Wi-Fi readings.
	RSSIWindowSamples int `json:"rssi_window_samples"`
}

// Interval returns the refresh period. Unset or invalid values default to
// 10s; one second is the smallest accepted period.
func (c WatcherConfig) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

// RSSIWindow returns the configured window size, defaulting to 10 samples.
func (c WatcherConfig) RSSIWindow() int {
	if c.RSSIWindowSamples <= 0 {
		return 10
	}
	return c.RSSIWindowSamples
}
