package model

// Statistics holds the lifetime counters reported by the robot. The firmware
// transmits distance, time and area as fixed point integers: distance uses 7
// fractional bits, time and area use 6.
type Statistics struct {
	DistanceDriven int `json:"total_distance_driven"`
	CleaningTime   int `json:"total_cleaning_time"`
	AreaCleaned    int `json:"total_area_cleaned"`
	CleaningRuns   int `json:"total_number_of_cleaning_runs"`
}

// DistanceMeters converts the raw distance counter to meters.
func (s Statistics) DistanceMeters() float64 {
	return float64(s.DistanceDriven) / 128
}

// CleaningHours converts the raw cleaning time counter to hours.
func (s Statistics) CleaningHours() float64 {
	return float64(s.CleaningTime) / 64
}

// AreaSquareMeters converts the raw area counter to square meters.
func (s Statistics) AreaSquareMeters() float64 {
	return float64(s.AreaCleaned) / 64
}
