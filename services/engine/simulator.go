package engine

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SimConfig describes one single-instrument backtest run.
type SimConfig struct {
	Symbol          string
	Sector          string
	AssetClass      AssetClass
	InitialCapital  float64
	SlippageBps     float64
	TargetAnnualVol float64
	Limits          RiskLimits
}

// Result is the output handed to reporting: the equity curve, the closed
// round trips and the full event trail.
type Result struct {
	Symbol      string
	Curve       []EquityPoint
	Trades      []TradeRecord
	Events      []Event
	FinalEquity decimal.Decimal
}

// Simulator drives the time-stepped replay. Each bar is processed to
// completion before the next one: fills first, then ledger settlement, then
// mark-to-market, and only then is the bar's signal allowed to place new
// orders. An order created on a bar's close is therefore first eligible to
// fill on the following bar, which keeps the replay free of look-ahead.
type Simulator struct {
	cfg    SimConfig
	book   *OrderBook
	costs  CostModel
	sizer  *PositionSizer
	gate   *ComplianceGate
	ledger *PortfolioLedger
	events *EventLog
	logger *zap.Logger
}

func NewSimulator(cfg SimConfig, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	events := &EventLog{}
	return &Simulator{
		cfg:    cfg,
		book:   NewOrderBook(ImpactSlippage{BaseBps: cfg.SlippageBps}, events, logger.Named("book")),
		costs:  NewIndianTaxModel(),
		sizer:  NewPositionSizer(cfg.TargetAnnualVol, logger.Named("sizer")),
		gate:   NewComplianceGate(cfg.Limits, logger.Named("compliance")),
		ledger: NewPortfolioLedger(cfg.InitialCapital, logger.Named("ledger")),
		events: events,
		logger: logger,
	}
}

// Book exposes the order book, mainly for tests and external cancellation.
func (s *Simulator) Book() *OrderBook { return s.book }

// Ledger exposes the portfolio state.
func (s *Simulator) Ledger() *PortfolioLedger { return s.ledger }

// Run replays bars against signals. The two slices must be aligned one to
// one; the run ends when the bar sequence is exhausted.
func (s *Simulator) Run(bars []Bar, signals []Signal) (*Result, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars for %s", s.cfg.Symbol)
	}
	if len(bars) != len(signals) {
		return nil, fmt.Errorf("bars/signals length mismatch: %d vs %d", len(bars), len(signals))
	}

	s.logger.Info("starting backtest",
		zap.String("symbol", s.cfg.Symbol),
		zap.Int("bars", len(bars)),
		zap.Float64("initial_capital", s.cfg.InitialCapital))

	for i, bar := range bars {
		s.step(bar, signals[i])
	}

	return &Result{
		Symbol:      s.cfg.Symbol,
		Curve:       s.ledger.Curve(),
		Trades:      s.ledger.Trades(),
		Events:      s.events.Events,
		FinalEquity: s.ledger.Equity(),
	}, nil
}

func (s *Simulator) step(bar Bar, sig Signal) {
	// (a) evaluate yesterday's orders against today's bar
	s.book.Process(bar, s.cfg.Symbol, sig.Volatility)

	// (b) settle fills, one cost breakdown per fill
	for _, f := range s.book.Fills() {
		closed := len(s.ledger.Trades())
		cost := s.costs.Calculate(f.Price, f.Order.Quantity, f.Order.Side, s.cfg.AssetClass)
		s.ledger.ApplyFill(f, cost)
		if trades := s.ledger.Trades(); len(trades) > closed {
			tr := trades[len(trades)-1]
			s.events.Append(Event{Ts: bar.Timestamp, Type: EventTradeClosed, Symbol: tr.Symbol,
				Details: map[string]string{"net_pnl": tr.NetPnL.StringFixed(2)}})
		}
	}

	// (c) mark to market
	equity := s.ledger.MarkToMarket(bar.Timestamp, map[string]float64{s.cfg.Symbol: bar.Close})
	s.events.Append(Event{Ts: bar.Timestamp, Type: EventEquityPoint, Symbol: s.cfg.Symbol,
		Details: map[string]string{"equity": equity.StringFixed(2)}})

	// (d) trade only with a clean book for this instrument
	if s.book.HasOpen(s.cfg.Symbol) {
		return
	}

	held := s.ledger.Holdings(s.cfg.Symbol)
	switch {
	case sig.Direction > 0 && held == 0:
		s.tryEnter(bar, sig)
	case sig.Direction < 0 && held > 0:
		s.book.Submit(NewOrder(s.cfg.Symbol, held, TradeSideSell, OrderMarket, 0))
	case sig.Direction < 0 && held == 0:
		// short entries are not supported; flat stays flat
		s.logger.Debug("short signal while flat ignored", zap.String("symbol", s.cfg.Symbol))
	}
}

func (s *Simulator) tryEnter(bar Bar, sig Signal) {
	equity := s.ledger.Equity().InexactFloat64()

	qty, err := s.sizer.Size(equity, bar.Close, sig.Volatility)
	if err != nil || qty == 0 {
		s.events.Append(Event{Ts: bar.Timestamp, Type: EventSizingSkip, Symbol: s.cfg.Symbol,
			Details: map[string]string{"reason": "zero quantity"}})
		return
	}

	view := PortfolioView{
		ActivePositions:  s.ledger.ActivePositions(),
		CurrentDrawdown:  s.ledger.Drawdown(),
		TotalEquity:      equity,
		SectorAllocation: s.sectorAllocation(equity),
	}
	intent := TradeIntent{
		Side:          IntentEntry,
		Sector:        s.cfg.Sector,
		CapitalImpact: float64(qty) * bar.Close,
	}

	if d := s.gate.Authorize(view, intent); !d.Allowed {
		s.events.Append(Event{Ts: bar.Timestamp, Type: EventComplianceReject, Symbol: s.cfg.Symbol,
			Details: map[string]string{"reason": d.Reason, "quantity": strconv.FormatInt(qty, 10)}})
		return
	}

	s.book.Submit(NewOrder(s.cfg.Symbol, qty, TradeSideBuy, OrderMarket, 0))
}

// sectorAllocation buckets current position values by the configured sector.
// With a single-instrument run every held symbol belongs to cfg.Sector.
func (s *Simulator) sectorAllocation(equity float64) map[string]float64 {
	alloc := make(map[string]float64)
	if equity <= 0 {
		return alloc
	}
	for _, v := range s.ledger.PositionValues() {
		alloc[s.cfg.Sector] += v / equity
	}
	return alloc
}
