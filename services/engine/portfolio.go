package engine

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EquityPoint is one sample of the marked-to-market portfolio value.
type EquityPoint struct {
	Timestamp int64
	Equity    decimal.Decimal
}

// TradeRecord is one closed round trip, immutable once appended.
type TradeRecord struct {
	Symbol     string
	Direction  string // LONG only in this engine
	EntryTs    int64
	ExitTs     int64
	EntryPrice float64
	ExitPrice  float64
	Quantity   int64
	Fees       decimal.Decimal
	GrossPnL   decimal.Decimal
	NetPnL     decimal.Decimal
	ReturnPct  float64
}

type entryState struct {
	price float64
	ts    int64
	fees  decimal.Decimal
}

// PortfolioLedger owns cash and holdings, applies fills atomically, tracks
// the running equity peak for drawdown, and records closed round trips.
type PortfolioLedger struct {
	cash      decimal.Decimal
	holdings  map[string]int64
	lastClose map[string]float64
	entries   map[string]entryState

	equity decimal.Decimal
	peak   decimal.Decimal
	curve  []EquityPoint
	trades []TradeRecord

	logger *zap.Logger
}

func NewPortfolioLedger(initialCash float64, logger *zap.Logger) *PortfolioLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	cash := decimal.NewFromFloat(initialCash)
	return &PortfolioLedger{
		cash:      cash,
		holdings:  make(map[string]int64),
		lastClose: make(map[string]float64),
		entries:   make(map[string]entryState),
		equity:    cash,
		peak:      cash,
		logger:    logger,
	}
}

// ApplyFill settles one fill: cash and holdings move together, and a SELL
// that nets the position back to zero closes the round trip.
func (l *PortfolioLedger) ApplyFill(f Fill, cost CostBreakdown) {
	o := f.Order
	o.Fees = cost.Total
	notional := decimal.NewFromFloat(f.Price).Mul(decimal.NewFromInt(o.Quantity))

	if o.Side == TradeSideBuy {
		l.cash = l.cash.Sub(notional).Sub(cost.Total)
		l.holdings[o.Symbol] += o.Quantity
		l.entries[o.Symbol] = entryState{price: f.Price, ts: f.Ts, fees: cost.Total}
		return
	}

	l.cash = l.cash.Add(notional).Sub(cost.Total)
	l.holdings[o.Symbol] -= o.Quantity

	if l.holdings[o.Symbol] == 0 {
		entry := l.entries[o.Symbol]
		delete(l.entries, o.Symbol)
		l.recordTrade(o.Symbol, entry, f, cost)
	}
}

func (l *PortfolioLedger) recordTrade(symbol string, entry entryState, exit Fill, cost CostBreakdown) {
	qty := decimal.NewFromInt(exit.Order.Quantity)
	gross := decimal.NewFromFloat(exit.Price).Sub(decimal.NewFromFloat(entry.price)).Mul(qty)
	fees := entry.fees.Add(cost.Total)
	net := gross.Sub(fees)

	// guard against a zero entry basis rather than dividing by zero
	returnPct := 0.0
	if entry.price > 0 {
		basis := decimal.NewFromFloat(entry.price).Mul(qty)
		returnPct = net.Div(basis).InexactFloat64()
	}

	rec := TradeRecord{
		Symbol:     symbol,
		Direction:  "LONG",
		EntryTs:    entry.ts,
		ExitTs:     exit.Ts,
		EntryPrice: entry.price,
		ExitPrice:  exit.Price,
		Quantity:   exit.Order.Quantity,
		Fees:       fees,
		GrossPnL:   gross,
		NetPnL:     net,
		ReturnPct:  returnPct,
	}
	l.trades = append(l.trades, rec)
	l.logger.Info("round trip closed",
		zap.String("symbol", symbol),
		zap.Int64("quantity", rec.Quantity),
		zap.String("net_pnl", net.StringFixed(2)))
}

// MarkToMarket revalues holdings at the latest closes and appends an equity
// point. equity = cash + sum(holdings * close).
func (l *PortfolioLedger) MarkToMarket(ts int64, closes map[string]float64) decimal.Decimal {
	for sym, px := range closes {
		l.lastClose[sym] = px
	}

	equity := l.cash
	for sym, qty := range l.holdings {
		if qty == 0 {
			continue
		}
		equity = equity.Add(decimal.NewFromFloat(l.lastClose[sym]).Mul(decimal.NewFromInt(qty)))
	}
	l.equity = equity
	if equity.GreaterThan(l.peak) {
		l.peak = equity
	}
	l.curve = append(l.curve, EquityPoint{Timestamp: ts, Equity: equity})
	return equity
}

func (l *PortfolioLedger) Cash() decimal.Decimal   { return l.cash }
func (l *PortfolioLedger) Equity() decimal.Decimal { return l.equity }

func (l *PortfolioLedger) Holdings(symbol string) int64 { return l.holdings[symbol] }

// ActivePositions counts symbols with a non-zero holding.
func (l *PortfolioLedger) ActivePositions() int {
	n := 0
	for _, qty := range l.holdings {
		if qty != 0 {
			n++
		}
	}
	return n
}

// Drawdown is the current fractional decline from the running equity peak.
func (l *PortfolioLedger) Drawdown() float64 {
	if !l.peak.IsPositive() {
		return 0
	}
	dd := l.peak.Sub(l.equity).Div(l.peak)
	if dd.IsNegative() {
		return 0
	}
	return dd.InexactFloat64()
}

// PositionValues returns the marked value of each non-zero holding.
func (l *PortfolioLedger) PositionValues() map[string]float64 {
	out := make(map[string]float64)
	for sym, qty := range l.holdings {
		if qty != 0 {
			out[sym] = float64(qty) * l.lastClose[sym]
		}
	}
	return out
}

func (l *PortfolioLedger) Curve() []EquityPoint  { return l.curve }
func (l *PortfolioLedger) Trades() []TradeRecord { return l.trades }
