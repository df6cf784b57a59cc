package strategies

import (
	"errors"
	"math"

	"alphaledger/services/engine"
)

// BollingerTrendStrategy trades breakouts through Bollinger bands, filtered
// by ADX so ranging markets don't whipsaw the entries: long when the close
// breaks the upper band with ADX above threshold, short/exit signal when it
// breaks the lower band under the same filter.
type BollingerTrendStrategy struct {
	Window       int
	StdDev       float64
	ADXWindow    int
	ADXThreshold float64
	VolWindow    int

	bars []engine.Bar
}

func NewBollingerTrendStrategy() *BollingerTrendStrategy {
	return &BollingerTrendStrategy{
		Window:       20,
		StdDev:       2.0,
		ADXWindow:    14,
		ADXThreshold: 25,
		VolWindow:    20,
	}
}

func (s *BollingerTrendStrategy) Name() string { return "bollinger_adx_trend" }

func (s *BollingerTrendStrategy) Load(bars []engine.Bar) error {
	if len(bars) == 0 {
		return errors.New("strategy received empty data")
	}
	s.bars = bars
	return nil
}

func (s *BollingerTrendStrategy) Signals() ([]engine.Signal, error) {
	if s.bars == nil {
		return nil, errors.New("data not loaded")
	}

	n := len(s.bars)
	closes := make([]float64, n)
	for i, b := range s.bars {
		closes[i] = b.Close
	}

	adx := s.computeADX()
	returns := pctChange(closes)

	signals := make([]engine.Signal, n)
	for i := range s.bars {
		sig := engine.Signal{Timestamp: s.bars[i].Timestamp}

		if vol, ok := rollingStd(returns, s.VolWindow, i); ok {
			sig.Volatility = vol
		}

		ma, okMA := rollingMean(closes, s.Window, i)
		std, okStd := rollingStd(closes, s.Window, i)
		if okMA && okStd && !math.IsNaN(adx[i]) && adx[i] > s.ADXThreshold {
			upper := ma + std*s.StdDev
			lower := ma - std*s.StdDev
			switch {
			case closes[i] > upper:
				sig.Direction = 1
			case closes[i] < lower:
				sig.Direction = -1
			}
		}

		signals[i] = sig
	}
	return signals, nil
}

// computeADX follows the classic true-range / directional-movement recipe
// with simple rolling sums. Warmup entries are NaN.
func (s *BollingerTrendStrategy) computeADX() []float64 {
	n := len(s.bars)
	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)

	for i := 1; i < n; i++ {
		b, prev := s.bars[i], s.bars[i-1]

		tr[i] = math.Max(b.High-b.Low,
			math.Max(math.Abs(b.High-prev.Close), math.Abs(b.Low-prev.Close)))

		upMove := b.High - prev.High
		downMove := prev.Low - b.Low
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	w := s.ADXWindow
	dx := make([]float64, n)
	for i := range dx {
		dx[i] = math.NaN()
	}
	for i := w; i < n; i++ {
		trSum, _ := rollingSum(tr, w, i)
		if trSum == 0 {
			continue
		}
		plusSum, _ := rollingSum(plusDM, w, i)
		minusSum, _ := rollingSum(minusDM, w, i)
		plusDI := 100 * plusSum / trSum
		minusDI := 100 * minusSum / trSum
		if plusDI+minusDI == 0 {
			continue
		}
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	}

	adx := make([]float64, n)
	for i := range adx {
		adx[i] = math.NaN()
		if i+1 < 2*w {
			continue
		}
		sum, count := 0.0, 0
		for j := i - w + 1; j <= i; j++ {
			if !math.IsNaN(dx[j]) {
				sum += dx[j]
				count++
			}
		}
		if count == w {
			adx[i] = sum / float64(count)
		}
	}
	return adx
}

// pctChange returns bar-over-bar fractional returns; index 0 is zero.
func pctChange(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			out[i] = closes[i]/closes[i-1] - 1
		}
	}
	return out
}
