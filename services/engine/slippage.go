package engine

// SlippageModel perturbs a target price into a realistic fill price.
// volatility <= 0 means no estimate is available.
type SlippageModel interface {
	Apply(side TradeSide, price, volatility float64) float64
}

// ImpactSlippage charges a fixed number of basis points of market impact,
// doubled when recent volatility runs above 1%. Buys fill above target,
// sells below; the fill never improves on the target.
type ImpactSlippage struct {
	BaseBps float64
}

func (s ImpactSlippage) Apply(side TradeSide, price, volatility float64) float64 {
	impact := s.BaseBps / 10000.0
	if volatility > 0.01 {
		impact *= 2.0
	}
	if side == TradeSideBuy {
		return price * (1 + impact)
	}
	return price * (1 - impact)
}
