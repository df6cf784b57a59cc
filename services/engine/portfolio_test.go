package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundTripProducesSingleTradeRecord(t *testing.T) {
	ledger := NewPortfolioLedger(100_000, nil)
	costs := NewIndianTaxModel()

	buy := NewOrder("RELIANCE", 10, TradeSideBuy, OrderMarket, 0)
	buyCost := costs.Calculate(100, 10, TradeSideBuy, AssetEquity)
	ledger.ApplyFill(Fill{Order: buy, Price: 100, Ts: 1}, buyCost)

	if got := ledger.Holdings("RELIANCE"); got != 10 {
		t.Fatalf("holdings = %d, want 10", got)
	}
	if len(ledger.Trades()) != 0 {
		t.Fatalf("trade recorded before the position closed")
	}

	sell := NewOrder("RELIANCE", 10, TradeSideSell, OrderMarket, 0)
	sellCost := costs.Calculate(110, 10, TradeSideSell, AssetEquity)
	ledger.ApplyFill(Fill{Order: sell, Price: 110, Ts: 5}, sellCost)

	trades := ledger.Trades()
	if len(trades) != 1 {
		t.Fatalf("got %d trade records, want 1", len(trades))
	}
	tr := trades[0]
	if tr.Quantity != 10 {
		t.Fatalf("trade quantity = %d, want the closing fill's 10", tr.Quantity)
	}
	if tr.EntryTs != 1 || tr.ExitTs != 5 {
		t.Fatalf("trade timestamps = (%d, %d), want (1, 5)", tr.EntryTs, tr.ExitTs)
	}

	wantGross := decimal.NewFromInt(100) // (110-100)*10
	if !tr.GrossPnL.Equal(wantGross) {
		t.Fatalf("gross pnl = %s, want %s", tr.GrossPnL, wantGross)
	}
	wantFees := buyCost.Total.Add(sellCost.Total)
	if !tr.Fees.Equal(wantFees) {
		t.Fatalf("fees = %s, want %s", tr.Fees, wantFees)
	}
	if !tr.NetPnL.Equal(wantGross.Sub(wantFees)) {
		t.Fatalf("net pnl = %s, want gross minus fees", tr.NetPnL)
	}
	if tr.ReturnPct <= 0 {
		t.Fatalf("return pct = %v, want positive", tr.ReturnPct)
	}
}

func TestCashMovesWithFeesAtomically(t *testing.T) {
	ledger := NewPortfolioLedger(10_000, nil)
	cost := NewIndianTaxModel().Calculate(100, 10, TradeSideBuy, AssetEquity)

	buy := NewOrder("TCS", 10, TradeSideBuy, OrderMarket, 0)
	ledger.ApplyFill(Fill{Order: buy, Price: 100, Ts: 1}, cost)

	wantCash := decimal.NewFromInt(10_000).Sub(decimal.NewFromInt(1000)).Sub(cost.Total)
	if !ledger.Cash().Equal(wantCash) {
		t.Fatalf("cash = %s, want %s", ledger.Cash(), wantCash)
	}
}

func TestMarkToMarketAndDrawdown(t *testing.T) {
	ledger := NewPortfolioLedger(1000, nil)
	cost := CostBreakdown{} // frictionless to keep the arithmetic readable

	buy := NewOrder("TCS", 10, TradeSideBuy, OrderMarket, 0)
	ledger.ApplyFill(Fill{Order: buy, Price: 100, Ts: 1}, cost)

	eq := ledger.MarkToMarket(1, map[string]float64{"TCS": 100})
	if !eq.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("equity = %s, want 1000", eq)
	}

	ledger.MarkToMarket(2, map[string]float64{"TCS": 120}) // peak 1200
	ledger.MarkToMarket(3, map[string]float64{"TCS": 90})  // equity 900

	if dd := ledger.Drawdown(); dd < 0.249 || dd > 0.251 {
		t.Fatalf("drawdown = %v, want 0.25", dd)
	}
	if pts := ledger.Curve(); len(pts) != 3 {
		t.Fatalf("equity curve has %d points, want 3", len(pts))
	}
}

func TestZeroEntryPriceGuardsReturnPct(t *testing.T) {
	ledger := NewPortfolioLedger(1000, nil)
	cost := CostBreakdown{}

	buy := NewOrder("X", 10, TradeSideBuy, OrderMarket, 0)
	ledger.ApplyFill(Fill{Order: buy, Price: 0, Ts: 1}, cost)
	sell := NewOrder("X", 10, TradeSideSell, OrderMarket, 0)
	ledger.ApplyFill(Fill{Order: sell, Price: 10, Ts: 2}, cost)

	trades := ledger.Trades()
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	if trades[0].ReturnPct != 0 {
		t.Fatalf("return pct = %v, want 0 for zero entry basis", trades[0].ReturnPct)
	}
}

func TestActivePositionsCountsNonZeroHoldings(t *testing.T) {
	ledger := NewPortfolioLedger(100_000, nil)
	cost := CostBreakdown{}

	ledger.ApplyFill(Fill{Order: NewOrder("A", 1, TradeSideBuy, OrderMarket, 0), Price: 10, Ts: 1}, cost)
	ledger.ApplyFill(Fill{Order: NewOrder("B", 1, TradeSideBuy, OrderMarket, 0), Price: 10, Ts: 1}, cost)
	if got := ledger.ActivePositions(); got != 2 {
		t.Fatalf("active positions = %d, want 2", got)
	}

	ledger.ApplyFill(Fill{Order: NewOrder("A", 1, TradeSideSell, OrderMarket, 0), Price: 12, Ts: 2}, cost)
	if got := ledger.ActivePositions(); got != 1 {
		t.Fatalf("active positions = %d, want 1", got)
	}
}
