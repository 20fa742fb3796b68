package model

import (
	"sync"

	"gonum.org/v1/gonum/stat"
)

// RSSIWindow keeps the most recent Wi-Fi signal readings and exposes smoothed
// link quality figures. Raw RSSI jumps several dB between polls; dashboards
// and low-signal alerts should use the window mean instead.
type RSSIWindow struct {
	mu      sync.Mutex
	samples []float64
	next    int
	full    bool
}

// NewRSSIWindow creates a window holding up to size samples. Sizes below one
// fall back to a single sample window.
func NewRSSIWindow(size int) *RSSIWindow {
	if size < 1 {
		size = 1
	}
	return &RSSIWindow{samples: make([]float64, size)}
}

// Add records a reading in dBm.
func (w *RSSIWindow) Add(rssi int) {
	w.mu.Lock()
	w.samples[w.next] = float64(rssi)
	w.next++
	if w.next == len(w.samples) {
		w.next = 0
		w.full = true
	}
	w.mu.Unlock()
}

// Mean returns the average RSSI over the window, or 0 when no sample was
// recorded yet.
func (w *RSSIWindow) Mean() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.current()
	if len(s) == 0 {
		return 0
	}
	return stat.Mean(s, nil)
}

// StdDev returns the standard deviation of the window. A high deviation
// indicates an unstable link, for example a robot cleaning at the edge of
// coverage.
func (w *RSSIWindow) StdDev() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.current()
	if len(s) < 2 {
		return 0
	}
	return stat.StdDev(s, nil)
}

// Count returns the number of recorded samples, capped at the window size.
func (w *RSSIWindow) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.full {
		return len(w.samples)
	}
	return w.next
}

func (w *RSSIWindow) current() []float64 {
	if w.full {
		return w.samples
	}
	return w.samples[:w.next]
}
