package engine

import (
	"errors"
	"math"

	"go.uber.org/zap"
)

// ErrInvalidVolatility is returned when the sizer receives a non-positive
// daily volatility; the caller treats it as a zero-quantity result.
var ErrInvalidVolatility = errors.New("daily volatility must be positive")

// tradingDaysPerYear annualization constant for daily volatility
const tradingDaysPerYear = 252.0

// PositionSizer converts available capital and recent volatility into a
// share quantity using volatility targeting. The allocation scalar is capped
// at 1.0 so a quiet market never produces leverage above 1x capital.
type PositionSizer struct {
	TargetAnnualVol float64
	logger          *zap.Logger
}

func NewPositionSizer(targetAnnualVol float64, logger *zap.Logger) *PositionSizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PositionSizer{TargetAnnualVol: targetAnnualVol, logger: logger}
}

func (s *PositionSizer) Size(capital, price, dailyVol float64) (int64, error) {
	if dailyVol <= 0 {
		s.logger.Warn("sizer received non-positive volatility, defaulting to zero quantity",
			zap.Float64("daily_vol", dailyVol))
		return 0, ErrInvalidVolatility
	}
	if price <= 0 {
		return 0, errors.New("price must be positive")
	}

	targetDailyVol := s.TargetAnnualVol / math.Sqrt(tradingDaysPerYear)

	scalar := targetDailyVol / dailyVol
	if scalar > 1.0 {
		scalar = 1.0
	}

	qty := int64(math.Floor(capital * scalar / price))

	s.logger.Debug("position sized",
		zap.Float64("price", price),
		zap.Float64("daily_vol", dailyVol),
		zap.Float64("scalar", scalar),
		zap.Int64("quantity", qty))
	return qty, nil
}
