package engine

import (
	"strings"
	"testing"
)

func testLimits() RiskLimits {
	return RiskLimits{MaxDrawdown: 0.20, MaxSectorExposure: 0.30, MaxPositions: 10}
}

func TestEntryRejectedAtMaxPositions(t *testing.T) {
	gate := NewComplianceGate(testLimits(), nil)
	d := gate.Authorize(
		PortfolioView{ActivePositions: 10, TotalEquity: 1_000_000},
		TradeIntent{Side: IntentEntry, Sector: "Energy", CapitalImpact: 1000},
	)
	if d.Allowed {
		t.Fatalf("entry allowed at max positions")
	}
	if !strings.Contains(d.Reason, "10/10") {
		t.Fatalf("reason does not name the limit: %q", d.Reason)
	}
}

func TestExitAllowedAtMaxPositions(t *testing.T) {
	gate := NewComplianceGate(testLimits(), nil)
	d := gate.Authorize(
		PortfolioView{ActivePositions: 10, TotalEquity: 1_000_000},
		TradeIntent{Side: IntentExit, Sector: "Energy"},
	)
	if !d.Allowed {
		t.Fatalf("position-count limit must not block exits: %s", d.Reason)
	}
}

func TestDrawdownHaltBlocksEverything(t *testing.T) {
	gate := NewComplianceGate(testLimits(), nil)
	view := PortfolioView{ActivePositions: 1, CurrentDrawdown: 0.25, TotalEquity: 750_000}

	for _, side := range []IntentSide{IntentEntry, IntentExit} {
		d := gate.Authorize(view, TradeIntent{Side: side, Sector: "Energy"})
		if d.Allowed {
			t.Fatalf("trade allowed during drawdown halt (side %d)", side)
		}
		if !strings.Contains(d.Reason, "halted") {
			t.Fatalf("reason missing halt wording: %q", d.Reason)
		}
	}
}

func TestSectorExposureLimit(t *testing.T) {
	gate := NewComplianceGate(testLimits(), nil)
	view := PortfolioView{
		ActivePositions:  2,
		TotalEquity:      1_000_000,
		SectorAllocation: map[string]float64{"Tech": 0.25},
	}

	// 25% held + 10% proposed breaches the 30% cap
	d := gate.Authorize(view, TradeIntent{Side: IntentEntry, Sector: "Tech", CapitalImpact: 100_000})
	if d.Allowed {
		t.Fatalf("sector breach allowed")
	}
	if !strings.Contains(d.Reason, "Tech") {
		t.Fatalf("reason does not name the sector: %q", d.Reason)
	}

	// a different sector passes
	d = gate.Authorize(view, TradeIntent{Side: IntentEntry, Sector: "Pharma", CapitalImpact: 100_000})
	if !d.Allowed {
		t.Fatalf("clean sector rejected: %s", d.Reason)
	}
}

func TestChecksShortCircuitInOrder(t *testing.T) {
	gate := NewComplianceGate(testLimits(), nil)
	// both the position count and the drawdown are breached; the position
	// check runs first for entries
	d := gate.Authorize(
		PortfolioView{ActivePositions: 10, CurrentDrawdown: 0.50, TotalEquity: 500_000},
		TradeIntent{Side: IntentEntry, Sector: "Tech", CapitalImpact: 1000},
	)
	if d.Allowed || !strings.Contains(d.Reason, "max positions") {
		t.Fatalf("expected position-count rejection first, got %q", d.Reason)
	}
}
