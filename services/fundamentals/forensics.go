// Package fundamentals applies forensic accounting checks to candidate
// companies before they enter the tradable universe.
package fundamentals

import "math"

// Financials holds the current and prior-period figures the forensic
// checks compare. Ratios are fractions, not percentages.
type Financials struct {
	NetIncome          float64
	OperatingCashflow  float64
	ReturnOnAssets     float64
	PrevReturnOnAssets float64

	LongTermDebt     float64
	PrevLongTermDebt float64
	CurrentRatio     float64
	PrevCurrentRatio float64

	SharesOutstanding     float64
	PrevSharesOutstanding float64

	GrossMargin       float64
	PrevGrossMargin   float64
	AssetTurnover     float64
	PrevAssetTurnover float64

	Receivables     float64
	PrevReceivables float64
	Revenue         float64
	PrevRevenue     float64
	Leverage        float64
	PrevLeverage    float64
}

// manipulationThreshold is the Beneish cutoff above which earnings
// manipulation is likely.
const manipulationThreshold = -1.78

type Verdict string

const (
	VerdictPass          Verdict = "PASS"
	VerdictWeak          Verdict = "WEAK_FUNDAMENTALS"
	VerdictPossibleFraud Verdict = "POSSIBLE_FRAUD"
)

type HealthReport struct {
	Ticker  string
	FScore  int
	MScore  float64
	Verdict Verdict
}

// FScore computes the 0-9 Piotroski score; 7-9 is strong.
func FScore(f Financials) int {
	score := 0

	// profitability
	if f.NetIncome > 0 {
		score++
	}
	if f.OperatingCashflow > 0 {
		score++
	}
	if f.ReturnOnAssets > f.PrevReturnOnAssets {
		score++
	}
	if f.OperatingCashflow > f.NetIncome { // earnings quality
		score++
	}

	// leverage and liquidity
	if f.LongTermDebt < f.PrevLongTermDebt {
		score++
	}
	if f.CurrentRatio > f.PrevCurrentRatio {
		score++
	}
	if f.SharesOutstanding <= f.PrevSharesOutstanding { // no dilution
		score++
	}

	// operating efficiency
	if f.GrossMargin > f.PrevGrossMargin {
		score++
	}
	if f.AssetTurnover > f.PrevAssetTurnover {
		score++
	}
	return score
}

// MScore computes a reduced Beneish M-score from the index variables with
// the published 1999 coefficients. A neutral zero is returned when a prior
// period figure is missing.
func MScore(f Financials) float64 {
	if f.Revenue == 0 || f.PrevRevenue == 0 || f.PrevReceivables == 0 ||
		f.GrossMargin == 0 || f.PrevLeverage == 0 {
		return 0
	}

	dsri := (f.Receivables / f.Revenue) / (f.PrevReceivables / f.PrevRevenue)
	gmi := f.PrevGrossMargin / f.GrossMargin
	sgi := f.Revenue / f.PrevRevenue
	lvgi := f.Leverage / f.PrevLeverage

	m := -4.84 + 0.92*dsri + 0.528*gmi + 0.892*sgi + 0.462*lvgi
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0
	}
	return m
}

// AnalyzeHealth combines both scores into a verdict. A fraud flag outranks
// a weakness flag.
func AnalyzeHealth(ticker string, f Financials) HealthReport {
	fScore := FScore(f)
	mScore := MScore(f)

	verdict := VerdictPass
	if fScore < 4 {
		verdict = VerdictWeak
	}
	if mScore > manipulationThreshold && mScore != 0 {
		verdict = VerdictPossibleFraud
	}

	return HealthReport{Ticker: ticker, FScore: fScore, MScore: mScore, Verdict: verdict}
}
