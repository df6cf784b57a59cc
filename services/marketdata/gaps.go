package marketdata

import "alphaledger/services/engine"

// DetectGaps returns the timestamp preceding each missing interval in a
// sorted bar series. expectedStepMs of zero disables the check.
func DetectGaps(bars []engine.Bar, expectedStepMs int64) []int64 {
	if expectedStepMs <= 0 {
		return nil
	}
	var gaps []int64
	for i := 1; i < len(bars); i++ {
		if bars[i].Timestamp-bars[i-1].Timestamp > expectedStepMs {
			gaps = append(gaps, bars[i-1].Timestamp)
		}
	}
	return gaps
}

// SortedByTime reports whether timestamps are strictly ascending.
func SortedByTime(bars []engine.Bar) bool {
	for i := 1; i < len(bars); i++ {
		if bars[i].Timestamp <= bars[i-1].Timestamp {
			return false
		}
	}
	return true
}
