package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TradeSide int

const (
	TradeSideBuy TradeSide = iota
	TradeSideSell
)

func (s TradeSide) String() string {
	if s == TradeSideBuy {
		return "BUY"
	}
	return "SELL"
}

type OrderType int

const (
	OrderMarket OrderType = iota
	OrderLimit
	OrderStop
)

func (t OrderType) String() string {
	switch t {
	case OrderLimit:
		return "LIMIT"
	case OrderStop:
		return "STOP"
	default:
		return "MARKET"
	}
}

type OrderStatus int

const (
	OrderOpen OrderStatus = iota
	OrderFilled
	OrderRejected
	OrderCancelled
)

func (s OrderStatus) String() string {
	switch s {
	case OrderFilled:
		return "FILLED"
	case OrderRejected:
		return "REJECTED"
	case OrderCancelled:
		return "CANCELLED"
	default:
		return "OPEN"
	}
}

// Order is a single instruction to the matching engine. Price holds the limit
// price for LIMIT orders and the trigger price for STOP orders; it is unused
// for MARKET orders.
type Order struct {
	ID       string
	Symbol   string
	Quantity int64
	Side     TradeSide
	Type     OrderType
	Price    float64

	Status    OrderStatus
	FillPrice float64
	FillTs    int64
	Fees      decimal.Decimal
}

func NewOrder(symbol string, qty int64, side TradeSide, typ OrderType, price float64) *Order {
	return &Order{
		ID:       uuid.NewString(),
		Symbol:   symbol,
		Quantity: qty,
		Side:     side,
		Type:     typ,
		Price:    price,
		Status:   OrderOpen,
		Fees:     decimal.Zero,
	}
}

// ShouldFillLimit returns true if a limit order is touched in this bar
func ShouldFillLimit(side TradeSide, limit float64, bar Bar) bool {
	if side == TradeSideBuy {
		return bar.Low <= limit
	}
	return bar.High >= limit
}

// ShouldTriggerStop returns true if a stop order triggers in this bar
func ShouldTriggerStop(side TradeSide, stop float64, bar Bar) bool {
	if side == TradeSideBuy { // buy stop breakout up
		return bar.High >= stop
	}
	return bar.Low <= stop
}

// FillPriceLimit computes the deterministic fill price for a touched limit.
// A gap through the limit at the open fills at the open, which is the
// favorable side for the order.
func FillPriceLimit(side TradeSide, limit float64, bar Bar) float64 {
	if side == TradeSideBuy {
		if bar.Open <= limit {
			return bar.Open
		}
		return limit
	}
	if bar.Open >= limit {
		return bar.Open
	}
	return limit
}
