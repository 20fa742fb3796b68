package model

import (
	"math"
	"testing"
)

func TestRSSIWindowMean(t *testing.T) {
	w := NewRSSIWindow(4)
	if w.Mean() != 0 || w.Count() != 0 {
		t.Fatalf("empty window must report zero")
	}
	for _, v := range []int{-50, -54, -52, -48} {
		w.Add(v)
	}
	if got := w.Mean(); got != -51 {
		t.Fatalf("mean: expected -51 got %v", got)
	}
	if w.Count() != 4 {
		t.Fatalf("count: expected 4 got %d", w.Count())
	}
}

func TestRSSIWindowWrapsOldest(t *testing.T) {
	w := NewRSSIWindow(2)
	w.Add(-90)
	w.Add(-60)
	w.Add(-60) // evicts -90
	if got := w.Mean(); got != -60 {
		t.Fatalf("expected -60 got %v", got)
	}
}

func TestRSSIWindowStdDev(t *testing.T) {
	w := NewRSSIWindow(3)
	w.Add(-50)
	if w.StdDev() != 0 {
		t.Fatalf("single sample must have zero deviation")
	}
	w.Add(-54)
	w.Add(-58)
	if got := w.StdDev(); math.Abs(got-4) > 1e-9 {
		t.Fatalf("expected stddev 4 got %v", got)
	}
}
