// Package config defines the run configuration for the backtester and its
// validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration. Fields are populated from a TOML file
// and then optionally overridden by ALPHALEDGER_* environment variables.
type Config struct {
	Run        RunConfig        `toml:"run"`
	Risk       RiskConfig       `toml:"risk"`
	Execution  ExecutionConfig  `toml:"execution"`
	Strategy   StrategyConfig   `toml:"strategy"`
	ClickHouse ClickHouseConfig `toml:"clickhouse"`
	Server     ServerConfig     `toml:"server"`
	LogLevel   string           `toml:"log_level"`
}

// RunConfig describes the instrument and capital for one backtest.
type RunConfig struct {
	Symbol         string  `toml:"symbol"`
	Sector         string  `toml:"sector"`
	AssetClass     string  `toml:"asset_class"` // EQUITY or INTRADAY
	InitialCapital float64 `toml:"initial_capital"`
}

// RiskConfig holds the compliance limits.
type RiskConfig struct {
	MaxDrawdownLimit  float64 `toml:"max_drawdown_limit"`
	MaxSectorExposure float64 `toml:"max_sector_exposure"`
	MaxPositions      int     `toml:"max_positions"`
}

// ExecutionConfig tunes the fill simulation.
type ExecutionConfig struct {
	SlippageBps     float64 `toml:"slippage_bps"`
	TargetAnnualVol float64 `toml:"target_annual_vol"`
}

// StrategyConfig parameterizes the signal generator.
type StrategyConfig struct {
	Window       int     `toml:"window"`
	StdDev       float64 `toml:"std_dev"`
	ADXWindow    int     `toml:"adx_window"`
	ADXThreshold float64 `toml:"adx_threshold"`
}

// ClickHouseConfig holds bar-store connection parameters.
type ClickHouseConfig struct {
	Addr     string `toml:"addr"`
	Database string `toml:"database"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Table    string `toml:"table"`
}

// ServerConfig holds the HTTP job API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Run: RunConfig{
			Symbol:         "RELIANCE",
			Sector:         "Energy",
			AssetClass:     "EQUITY",
			InitialCapital: 1_000_000,
		},
		Risk: RiskConfig{
			MaxDrawdownLimit:  0.20,
			MaxSectorExposure: 1.0,
			MaxPositions:      10,
		},
		Execution: ExecutionConfig{
			SlippageBps:     5,
			TargetAnnualVol: 0.20,
		},
		Strategy: StrategyConfig{
			Window:       20,
			StdDev:       2.0,
			ADXWindow:    14,
			ADXThreshold: 25,
		},
		ClickHouse: ClickHouseConfig{
			Addr:     "localhost:9000",
			Database: "backtest",
			Username: "backtest",
			Table:    "data",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		LogLevel: "info",
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.Run.Symbol == "" {
		problems = append(problems, "run.symbol is required")
	}
	if c.Run.InitialCapital <= 0 {
		problems = append(problems, "run.initial_capital must be positive")
	}
	switch strings.ToUpper(c.Run.AssetClass) {
	case "EQUITY", "INTRADAY":
	default:
		problems = append(problems, fmt.Sprintf("run.asset_class %q is not EQUITY or INTRADAY", c.Run.AssetClass))
	}
	if c.Risk.MaxDrawdownLimit <= 0 || c.Risk.MaxDrawdownLimit >= 1 {
		problems = append(problems, "risk.max_drawdown_limit must be in (0, 1)")
	}
	if c.Risk.MaxSectorExposure <= 0 || c.Risk.MaxSectorExposure > 1 {
		problems = append(problems, "risk.max_sector_exposure must be in (0, 1]")
	}
	if c.Risk.MaxPositions <= 0 {
		problems = append(problems, "risk.max_positions must be positive")
	}
	if c.Execution.SlippageBps < 0 {
		problems = append(problems, "execution.slippage_bps cannot be negative")
	}
	if c.Execution.TargetAnnualVol <= 0 {
		problems = append(problems, "execution.target_annual_vol must be positive")
	}
	if c.Strategy.Window < 2 {
		problems = append(problems, "strategy.window must be at least 2")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
