package engine

import (
	"go.uber.org/zap"
)

// Fill pairs a terminal order with its execution price.
type Fill struct {
	Order *Order
	Price float64
	Ts    int64
}

// OrderBook simulates the exchange matching engine against bar data. Open
// orders are kept in submission order and evaluated FIFO against each bar;
// there is no partial fill and no expiry. Filled orders leave the open set
// and are queued for the caller to drain.
type OrderBook struct {
	slippage SlippageModel
	events   *EventLog
	logger   *zap.Logger

	open  []*Order
	fills []Fill
}

func NewOrderBook(slippage SlippageModel, events *EventLog, logger *zap.Logger) *OrderBook {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = &EventLog{}
	}
	return &OrderBook{slippage: slippage, events: events, logger: logger}
}

// Submit validates and books an order. A non-positive quantity makes the
// order REJECTED immediately; it never enters the open set. The order id is
// returned either way for correlation.
func (b *OrderBook) Submit(o *Order) string {
	if o.Quantity <= 0 {
		o.Status = OrderRejected
		b.logger.Warn("order rejected: invalid quantity",
			zap.String("order_id", o.ID),
			zap.Int64("quantity", o.Quantity))
		b.events.Append(Event{Type: EventOrderReject, Symbol: o.Symbol,
			Details: map[string]string{"order_id": o.ID, "reason": "invalid quantity"}})
		return o.ID
	}

	b.open = append(b.open, o)
	b.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("side", o.Side.String()),
		zap.String("type", o.Type.String()),
		zap.String("symbol", o.Symbol),
		zap.Int64("quantity", o.Quantity))
	b.events.Append(Event{Type: EventOrderSubmit, Symbol: o.Symbol,
		Details: map[string]string{"order_id": o.ID}})
	return o.ID
}

// Cancel removes an open order by id.
func (b *OrderBook) Cancel(id string) bool {
	for i, o := range b.open {
		if o.ID == id {
			o.Status = OrderCancelled
			b.open = append(b.open[:i], b.open[i+1:]...)
			b.events.Append(Event{Type: EventOrderCancel, Symbol: o.Symbol,
				Details: map[string]string{"order_id": o.ID}})
			return true
		}
	}
	return false
}

// HasOpen reports whether any order for symbol is still working.
func (b *OrderBook) HasOpen(symbol string) bool {
	for _, o := range b.open {
		if o.Symbol == symbol {
			return true
		}
	}
	return false
}

// OpenOrders returns a snapshot of the working set.
func (b *OrderBook) OpenOrders() []*Order {
	out := make([]*Order, len(b.open))
	copy(out, b.open)
	return out
}

// Process evaluates every open order for symbol against one bar. Evaluation
// is two-phase: decide fills over a snapshot first, then rewrite the open
// set, so the working slice is never mutated mid-iteration. Orders that do
// not satisfy their condition stay OPEN for the next bar. volatility feeds
// the slippage model for market and stop executions.
func (b *OrderBook) Process(bar Bar, symbol string, volatility float64) {
	type decision struct {
		order *Order
		price float64
	}

	var filled []decision
	for _, o := range b.open {
		if o.Symbol != symbol {
			continue
		}

		switch o.Type {
		case OrderMarket:
			// fills this bar at the slipped close
			filled = append(filled, decision{o, b.slippage.Apply(o.Side, bar.Close, volatility)})

		case OrderLimit:
			if ShouldFillLimit(o.Side, o.Price, bar) {
				filled = append(filled, decision{o, FillPriceLimit(o.Side, o.Price, bar)})
			}

		case OrderStop:
			if ShouldTriggerStop(o.Side, o.Price, bar) {
				// triggers as a market order at the stop level, slippage applied
				filled = append(filled, decision{o, b.slippage.Apply(o.Side, o.Price, volatility)})
			}
		}
	}

	if len(filled) == 0 {
		return
	}

	isFilled := make(map[string]bool, len(filled))
	for _, d := range filled {
		isFilled[d.order.ID] = true
	}

	remaining := b.open[:0]
	for _, o := range b.open {
		if !isFilled[o.ID] {
			remaining = append(remaining, o)
		}
	}
	b.open = remaining

	for _, d := range filled {
		d.order.Status = OrderFilled
		d.order.FillPrice = d.price
		d.order.FillTs = bar.Timestamp
		b.fills = append(b.fills, Fill{Order: d.order, Price: d.price, Ts: bar.Timestamp})
		b.logger.Info("order filled",
			zap.String("order_id", d.order.ID),
			zap.String("side", d.order.Side.String()),
			zap.String("symbol", d.order.Symbol),
			zap.Float64("price", d.price))
		b.events.Append(Event{Ts: bar.Timestamp, Type: EventOrderFill, Symbol: d.order.Symbol,
			Details: map[string]string{"order_id": d.order.ID}})
	}
}

// Fills drains the queued fills in submission order.
func (b *OrderBook) Fills() []Fill {
	out := b.fills
	b.fills = nil
	return out
}
