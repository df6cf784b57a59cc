// Package strategies contains signal generators that drive the simulator.
// A strategy is loaded with the full bar history up front and emits one
// signal per bar; the engine treats the output as opaque.
package strategies

import (
	"math"

	"alphaledger/services/engine"
)

type Strategy interface {
	Name() string
	Load(bars []engine.Bar) error
	Signals() ([]engine.Signal, error)
}

// rolling helpers shared by the concrete strategies

func rollingSum(values []float64, window int, i int) (float64, bool) {
	if i+1 < window {
		return 0, false
	}
	sum := 0.0
	for j := i - window + 1; j <= i; j++ {
		sum += values[j]
	}
	return sum, true
}

func rollingMean(values []float64, window int, i int) (float64, bool) {
	sum, ok := rollingSum(values, window, i)
	if !ok {
		return 0, false
	}
	return sum / float64(window), true
}

// rollingStd is the sample standard deviation over the trailing window.
func rollingStd(values []float64, window int, i int) (float64, bool) {
	if window < 2 {
		return 0, false
	}
	mean, ok := rollingMean(values, window, i)
	if !ok {
		return 0, false
	}
	ss := 0.0
	for j := i - window + 1; j <= i; j++ {
		d := values[j] - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(window-1)), true
}
