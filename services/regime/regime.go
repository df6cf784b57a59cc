// Package regime classifies the macro market environment from a volatility
// index series. The screener halts new longs during a panic regime.
package regime

import (
	"errors"

	"alphaledger/services/engine"
)

type Regime string

const (
	RegimeNormal      Regime = "NORMAL"
	RegimePanic       Regime = "HIGH_VOLATILITY_PANIC"
	RegimeComplacency Regime = "LOW_VOLATILITY_COMPLACENCY"
)

// Volatility-index levels bounding the normal band
const (
	panicLevel       = 22.0
	complacencyLevel = 12.0
)

type Assessment struct {
	Regime     Regime
	VixLevel   float64
	AllowLongs bool
}

// Classify maps a volatility-index level to a regime.
func Classify(vixLevel float64) Regime {
	switch {
	case vixLevel > panicLevel:
		return RegimePanic
	case vixLevel < complacencyLevel:
		return RegimeComplacency
	default:
		return RegimeNormal
	}
}

// Assess reads the latest close of a volatility-index bar series and
// returns the market state. New long entries are allowed in every regime
// except panic.
func Assess(vixBars []engine.Bar) (Assessment, error) {
	if len(vixBars) == 0 {
		return Assessment{}, errors.New("no volatility-index bars")
	}
	level := vixBars[len(vixBars)-1].Close
	r := Classify(level)
	return Assessment{
		Regime:     r,
		VixLevel:   level,
		AllowLongs: r != RegimePanic,
	}, nil
}
