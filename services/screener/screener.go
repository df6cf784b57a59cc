// Package screener filters the market universe down to a shortlist of
// tradable candidates: macro gate first, then a per-ticker fundamental
// audit.
package screener

import (
	"go.uber.org/zap"

	"alphaledger/services/fundamentals"
	"alphaledger/services/regime"
)

// Candidate pairs a ticker with its latest reported financials.
type Candidate struct {
	Ticker     string
	Financials fundamentals.Financials
}

type Screener struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Screener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Screener{logger: logger}
}

// Shortlist audits candidates under the given macro assessment. When the
// regime blocks new longs the list is empty regardless of fundamentals.
func (s *Screener) Shortlist(macro regime.Assessment, candidates []Candidate) []string {
	if !macro.AllowLongs {
		s.logger.Warn("macro regime blocks new longs, universe empty",
			zap.String("regime", string(macro.Regime)),
			zap.Float64("vix", macro.VixLevel))
		return nil
	}

	var shortlist []string
	for _, c := range candidates {
		report := fundamentals.AnalyzeHealth(c.Ticker, c.Financials)
		if report.Verdict == fundamentals.VerdictPass {
			shortlist = append(shortlist, c.Ticker)
			s.logger.Info("candidate passed audit",
				zap.String("ticker", c.Ticker),
				zap.Int("f_score", report.FScore))
		} else {
			s.logger.Info("candidate rejected",
				zap.String("ticker", c.Ticker),
				zap.String("verdict", string(report.Verdict)))
		}
	}
	return shortlist
}
