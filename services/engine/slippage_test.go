package engine

import (
	"math"
	"testing"
)

func TestSlippageNeverImprovesFill(t *testing.T) {
	s := ImpactSlippage{BaseBps: 5}
	for _, p := range []float64{0.5, 100, 2500, 99999} {
		if got := s.Apply(TradeSideBuy, p, 0); got < p {
			t.Fatalf("buy fill %v improved on target %v", got, p)
		}
		if got := s.Apply(TradeSideSell, p, 0); got > p {
			t.Fatalf("sell fill %v improved on target %v", got, p)
		}
	}
}

func TestSlippageVolatilityPenalty(t *testing.T) {
	s := ImpactSlippage{BaseBps: 5}

	calm := s.Apply(TradeSideBuy, 100, 0.005)
	if math.Abs(calm-100.05) > 1e-9 {
		t.Fatalf("calm fill = %v, want 100.05", calm)
	}

	// above the 1% threshold the impact doubles
	stressed := s.Apply(TradeSideBuy, 100, 0.02)
	if math.Abs(stressed-100.10) > 1e-9 {
		t.Fatalf("stressed fill = %v, want 100.10", stressed)
	}
}

func TestZeroBpsIsPassthrough(t *testing.T) {
	s := ImpactSlippage{BaseBps: 0}
	if got := s.Apply(TradeSideSell, 123.45, 0); got != 123.45 {
		t.Fatalf("zero-bps fill = %v", got)
	}
}
