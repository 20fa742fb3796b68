package model

import "testing"

func TestStatisticsConversions(t *testing.T) {
	s := Statistics{
		DistanceDriven: 256, // 2 m at 7 fractional bits
		CleaningTime:   96,  // 1.5 h at 6 fractional bits
		AreaCleaned:    320, // 5 m2 at 6 fractional bits
		CleaningRuns:   12,
	}
	if got := s.DistanceMeters(); got != 2 {
		t.Fatalf("distance: expected 2 got %v", got)
	}
	if got := s.CleaningHours(); got != 1.5 {
		t.Fatalf("time: expected 1.5 got %v", got)
	}
	if got := s.AreaSquareMeters(); got != 5 {
		t.Fatalf("area: expected 5 got %v", got)
	}
}
