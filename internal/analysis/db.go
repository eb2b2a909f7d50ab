package analysis

import "math"

// dbFloor is reported instead of -Inf for zero or near-zero amplitudes.
const dbFloor = -200.0

// linearFloor is the smallest amplitude converted to decibels.
const linearFloor = 1e-10

// DBToLinear converts a decibel value to linear amplitude.
func DBToLinear(db float64) float64 {
	return math.Pow(10.0, db/20.0)
}

// LinearToDB converts linear amplitude to decibels, flooring at -200 dB to
// avoid -Inf and log-domain errors on silent input.
func LinearToDB(linear float64) float64 {
	if linear > linearFloor {
		return 20.0 * math.Log10(linear)
	}
	return dbFloor
}
