package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// RiskLimits are the portfolio-level hard limits, fixed for a run.
type RiskLimits struct {
	MaxDrawdown       float64 // fraction of peak equity, e.g. 0.20
	MaxSectorExposure float64 // fraction of total equity per sector
	MaxPositions      int
}

type IntentSide int

const (
	IntentEntry IntentSide = iota
	IntentExit
)

// TradeIntent describes a proposed trade for authorization.
type TradeIntent struct {
	Side          IntentSide
	Sector        string
	CapitalImpact float64
}

// PortfolioView is the read-only portfolio snapshot the gate checks against.
type PortfolioView struct {
	ActivePositions  int
	CurrentDrawdown  float64
	TotalEquity      float64
	SectorAllocation map[string]float64 // fraction of equity per sector
}

type Decision struct {
	Allowed bool
	Reason  string
}

// ComplianceGate validates proposed trades against hard portfolio limits.
// Checks run in a fixed order and short-circuit on the first failure; the
// drawdown check applies even to exits since it models a trading halt.
type ComplianceGate struct {
	limits RiskLimits
	logger *zap.Logger
}

func NewComplianceGate(limits RiskLimits, logger *zap.Logger) *ComplianceGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplianceGate{limits: limits, logger: logger}
}

func (g *ComplianceGate) Authorize(portfolio PortfolioView, trade TradeIntent) Decision {
	if trade.Side == IntentEntry && portfolio.ActivePositions >= g.limits.MaxPositions {
		reason := fmt.Sprintf("max positions reached (%d/%d)",
			portfolio.ActivePositions, g.limits.MaxPositions)
		g.logger.Warn("trade rejected", zap.String("reason", reason))
		return Decision{Allowed: false, Reason: reason}
	}

	if portfolio.CurrentDrawdown > g.limits.MaxDrawdown {
		reason := fmt.Sprintf("portfolio in critical drawdown (%.1f%% > %.1f%%), trading halted",
			portfolio.CurrentDrawdown*100, g.limits.MaxDrawdown*100)
		g.logger.Error("trade rejected", zap.String("reason", reason))
		return Decision{Allowed: false, Reason: reason}
	}

	if trade.Sector != "" {
		totalEquity := portfolio.TotalEquity
		if totalEquity <= 0 {
			totalEquity = 1.0
		}
		newExposure := portfolio.SectorAllocation[trade.Sector] + trade.CapitalImpact/totalEquity
		if newExposure > g.limits.MaxSectorExposure {
			reason := fmt.Sprintf("sector limit exceeded for %s (%.1f%% > %.1f%%)",
				trade.Sector, newExposure*100, g.limits.MaxSectorExposure*100)
			g.logger.Warn("trade rejected", zap.String("reason", reason))
			return Decision{Allowed: false, Reason: reason}
		}
	}

	return Decision{Allowed: true, Reason: "compliance checks passed"}
}
