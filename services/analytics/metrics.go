// Package analytics computes performance metrics over an equity curve and a
// trade ledger, and renders the run tearsheet.
package analytics

import (
	"math"

	"alphaledger/services/engine"
)

const (
	tradingDaysPerYear = 252.0
	riskFreeRate       = 0.05 // annual
)

// DailyReturns converts an equity curve into bar-over-bar returns.
func DailyReturns(curve []engine.EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}
	out := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity.InexactFloat64()
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, curve[i].Equity.InexactFloat64()/prev-1)
	}
	return out
}

// CAGR computes the compound annual growth rate from a total return.
func CAGR(totalReturn, years float64) float64 {
	if years <= 0 {
		return 0
	}
	return math.Pow(1+totalReturn, 1/years) - 1
}

// Sharpe is the annualized Sharpe ratio against the risk-free rate.
func Sharpe(dailyReturns []float64) float64 {
	sd := stddev(dailyReturns)
	if sd == 0 {
		return 0
	}
	rfDaily := riskFreeRate / tradingDaysPerYear
	excess := mean(dailyReturns) - rfDaily
	return math.Sqrt(tradingDaysPerYear) * excess / sd
}

// Sortino penalizes only downside volatility.
func Sortino(dailyReturns []float64) float64 {
	var downside []float64
	for _, r := range dailyReturns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	sd := stddev(downside)
	if sd == 0 {
		return 0
	}
	return math.Sqrt(tradingDaysPerYear) * mean(dailyReturns) / sd
}

// MaxDrawdown is the deepest peak-to-valley decline, returned as a negative
// fraction.
func MaxDrawdown(curve []engine.EquityPoint) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, p := range curve {
		v := p.Equity.InexactFloat64()
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (v - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// WinRate is the fraction of closed trades with positive net PnL.
func WinRate(trades []engine.TradeRecord) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, tr := range trades {
		if tr.NetPnL.IsPositive() {
			wins++
		}
	}
	return float64(wins) / float64(len(trades))
}

// ProfitFactor is gross profit over gross loss; zero when there are no
// losing trades to divide by.
func ProfitFactor(trades []engine.TradeRecord) float64 {
	profit, loss := 0.0, 0.0
	for _, tr := range trades {
		pnl := tr.NetPnL.InexactFloat64()
		if pnl > 0 {
			profit += pnl
		} else {
			loss += -pnl
		}
	}
	if loss == 0 {
		return 0
	}
	return profit / loss
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
