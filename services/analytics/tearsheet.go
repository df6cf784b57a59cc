package analytics

import (
	"fmt"
	"io"
	"math"
	"time"

	"alphaledger/services/engine"
)

// Tearsheet renders a plain-text performance report for one run.
type Tearsheet struct {
	Curve  []engine.EquityPoint
	Trades []engine.TradeRecord
}

// WriteReport prints the structured report. It is safe on short or empty
// curves; sections degrade to "n/a" rather than failing.
func (ts *Tearsheet) WriteReport(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "   ALPHA LEDGER - PERFORMANCE REPORT")
	fmt.Fprintln(w, "========================================")

	if len(ts.Curve) < 2 {
		fmt.Fprintln(w, "insufficient equity history")
		return
	}

	first := ts.Curve[0].Equity.InexactFloat64()
	last := ts.Curve[len(ts.Curve)-1].Equity.InexactFloat64()
	totalReturn := 0.0
	if first != 0 {
		totalReturn = last/first - 1
	}

	start := time.UnixMilli(ts.Curve[0].Timestamp).UTC()
	end := time.UnixMilli(ts.Curve[len(ts.Curve)-1].Timestamp).UTC()
	years := end.Sub(start).Hours() / 24 / 365.25

	returns := DailyReturns(ts.Curve)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Return Metrics ---")
	fmt.Fprintf(w, "Total Return : %.2f%%\n", totalReturn*100)
	fmt.Fprintf(w, "CAGR         : %.2f%%\n", CAGR(totalReturn, years)*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Risk Metrics ---")
	fmt.Fprintf(w, "Volatility   : %.2f%%\n", stddev(returns)*math.Sqrt(tradingDaysPerYear)*100)
	fmt.Fprintf(w, "Sharpe Ratio : %.2f\n", Sharpe(returns))
	fmt.Fprintf(w, "Sortino Ratio: %.2f\n", Sortino(returns))
	fmt.Fprintf(w, "Max Drawdown : %.2f%%\n", MaxDrawdown(ts.Curve)*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Trade Analysis ---")
	if len(ts.Trades) == 0 {
		fmt.Fprintln(w, "No trades recorded.")
	} else {
		fmt.Fprintf(w, "Total Trades : %d\n", len(ts.Trades))
		fmt.Fprintf(w, "Win Rate     : %.2f%%\n", WinRate(ts.Trades)*100)
		avgWin, avgLoss := ts.averagePnls()
		fmt.Fprintf(w, "Avg Profit   : %.2f\n", avgWin)
		fmt.Fprintf(w, "Avg Loss     : %.2f\n", avgLoss)
		fmt.Fprintf(w, "Profit Factor: %.2f\n", ProfitFactor(ts.Trades))
	}
	fmt.Fprintln(w, "========================================")
}

func (ts *Tearsheet) averagePnls() (avgWin, avgLoss float64) {
	var wins, losses []float64
	for _, tr := range ts.Trades {
		pnl := tr.NetPnL.InexactFloat64()
		if pnl > 0 {
			wins = append(wins, pnl)
		} else if pnl < 0 {
			losses = append(losses, pnl)
		}
	}
	return mean(wins), mean(losses)
}
