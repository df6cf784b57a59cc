package engine

import "github.com/shopspring/decimal"

type AssetClass int

const (
	AssetEquity AssetClass = iota // delivery
	AssetIntraday
)

// CostBreakdown itemizes all regulatory and broker charges for one fill.
type CostBreakdown struct {
	Turnover       decimal.Decimal
	Brokerage      decimal.Decimal
	TransactionTax decimal.Decimal
	ExchangeFee    decimal.Decimal
	RegulatoryFee  decimal.Decimal
	StampDuty      decimal.Decimal
	ConsumptionTax decimal.Decimal
	Total          decimal.Decimal
}

type CostModel interface {
	Calculate(price float64, qty int64, side TradeSide, class AssetClass) CostBreakdown
}

// NSE cash-market rate card
var (
	brokerageRate      = decimal.NewFromFloat(0.0003)
	equityTaxRate      = decimal.NewFromFloat(0.001)   // STT, both sides on delivery
	intradayTaxRate    = decimal.NewFromFloat(0.00025) // STT, sell side only
	exchangeFeeRate    = decimal.NewFromFloat(0.0000345)
	regulatoryFeeRate  = decimal.NewFromFloat(0.000001)
	stampDutyRate      = decimal.NewFromFloat(0.00015) // buy side only
	consumptionTaxRate = decimal.NewFromFloat(0.18)    // GST on serviceable fees
)

// IndianTaxModel implements the NSE equity cost structure: brokerage capped
// at a flat amount per order, STT, exchange transaction charges, SEBI
// turnover fee, stamp duty, and GST. GST applies only to brokerage, exchange
// and SEBI charges; STT and stamp duty are taxes themselves.
type IndianTaxModel struct {
	BrokerageCap decimal.Decimal
}

func NewIndianTaxModel() *IndianTaxModel {
	return &IndianTaxModel{BrokerageCap: decimal.NewFromInt(20)}
}

func (m *IndianTaxModel) Calculate(price float64, qty int64, side TradeSide, class AssetClass) CostBreakdown {
	turnover := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(qty))

	brokerage := decimal.Min(turnover.Mul(brokerageRate), m.BrokerageCap)

	tax := decimal.Zero
	switch {
	case class == AssetEquity:
		tax = turnover.Mul(equityTaxRate)
	case class == AssetIntraday && side == TradeSideSell:
		tax = turnover.Mul(intradayTaxRate)
	}

	exchangeFee := turnover.Mul(exchangeFeeRate)
	regulatoryFee := turnover.Mul(regulatoryFeeRate)

	stampDuty := decimal.Zero
	if side == TradeSideBuy {
		stampDuty = turnover.Mul(stampDutyRate)
	}

	consumptionTax := brokerage.Add(exchangeFee).Add(regulatoryFee).Mul(consumptionTaxRate)

	total := brokerage.Add(tax).Add(exchangeFee).Add(regulatoryFee).Add(stampDuty).Add(consumptionTax)

	return CostBreakdown{
		Turnover:       turnover,
		Brokerage:      brokerage,
		TransactionTax: tax,
		ExchangeFee:    exchangeFee,
		RegulatoryFee:  regulatoryFee,
		StampDuty:      stampDuty,
		ConsumptionTax: consumptionTax,
		Total:          total,
	}
}
