package fundamentals

import "testing"

func strongFinancials() Financials {
	return Financials{
		NetIncome:          100,
		OperatingCashflow:  120,
		ReturnOnAssets:     0.15,
		PrevReturnOnAssets: 0.12,

		LongTermDebt:     50,
		PrevLongTermDebt: 60,
		CurrentRatio:     1.5,
		PrevCurrentRatio: 1.4,

		SharesOutstanding:     100,
		PrevSharesOutstanding: 100,

		GrossMargin:       0.30,
		PrevGrossMargin:   0.28,
		AssetTurnover:     1.1,
		PrevAssetTurnover: 1.0,

		Receivables:     1000,
		PrevReceivables: 800,
		Revenue:         5000,
		PrevRevenue:     4000,
		Leverage:        0.5,
		PrevLeverage:    0.5,
	}
}

func TestFScoreStrongCompany(t *testing.T) {
	if got := FScore(strongFinancials()); got != 9 {
		t.Fatalf("f-score = %d, want 9", got)
	}
}

func TestFScoreDilutionAndDebt(t *testing.T) {
	f := strongFinancials()
	f.SharesOutstanding = 150 // dilution
	f.LongTermDebt = 80       // debt grew
	if got := FScore(f); got != 7 {
		t.Fatalf("f-score = %d, want 7", got)
	}
}

func TestMScoreMissingDataIsNeutral(t *testing.T) {
	if got := MScore(Financials{}); got != 0 {
		t.Fatalf("m-score on empty data = %v, want 0", got)
	}
}

func TestAnalyzeHealthVerdicts(t *testing.T) {
	strong := strongFinancials()
	report := AnalyzeHealth("RELIANCE", strong)
	if report.FScore != 9 {
		t.Fatalf("f-score = %d", report.FScore)
	}
	if report.Verdict != VerdictPass {
		t.Fatalf("verdict = %s, want PASS (m-score %v)", report.Verdict, report.MScore)
	}

	// ballooning receivables push the m-score past the manipulation cutoff
	cooked := strongFinancials()
	cooked.Receivables = 2000
	report = AnalyzeHealth("COOKEDCO", cooked)
	if report.Verdict != VerdictPossibleFraud {
		t.Fatalf("verdict = %s, want %s (m-score %v)", report.Verdict, VerdictPossibleFraud, report.MScore)
	}

	weak := Financials{NetIncome: -10, OperatingCashflow: -5}
	report = AnalyzeHealth("WEAKCO", weak)
	if report.Verdict != VerdictWeak {
		t.Fatalf("verdict = %s, want %s", report.Verdict, VerdictWeak)
	}
}

func TestAnalyzeHealthPass(t *testing.T) {
	f := strongFinancials()
	// steady receivables and modest growth keep the m-score below threshold
	f.Receivables = 800
	f.Revenue = 4100
	f.PrevReceivables = 800
	f.PrevRevenue = 4000
	report := AnalyzeHealth("STEADYCO", f)
	if report.Verdict != VerdictPass {
		t.Fatalf("verdict = %s (m-score %v), want PASS", report.Verdict, report.MScore)
	}
}
