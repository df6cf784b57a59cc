// Command run_backtest replays the Bollinger trend strategy over a bar
// series and prints the performance tearsheet.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"alphaledger/services/analytics"
	"alphaledger/services/arrowstore"
	"alphaledger/services/clickhouse"
	"alphaledger/services/config"
	"alphaledger/services/engine"
	"alphaledger/services/marketdata"
	"alphaledger/strategies"
)

func main() {
	cfgPath := flag.String("config", "", "Path to TOML config (defaults apply if empty)")
	source := flag.String("source", "synthetic", "Bar source: csv, clickhouse or synthetic")
	csvPath := flag.String("csv", "", "Path to local CSV bars (source=csv)")
	days := flag.Int("days", 500, "Synthetic series length in business days (source=synthetic)")
	from := flag.String("from", "2020-01-01", "Start date YYYY-MM-DD (source=clickhouse)")
	to := flag.String("to", "2024-01-01", "End date YYYY-MM-DD (source=clickhouse)")
	interval := flag.String("interval", "1d", "Bar interval (source=clickhouse)")
	arrowOut := flag.String("arrow-out", "", "Optional path to dump the equity curve as Arrow IPC")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	bars, err := loadBars(cfg, logger, *source, *csvPath, *days, *from, *to, *interval)
	if err != nil {
		logger.Fatal("load bars", zap.Error(err))
	}
	if !marketdata.SortedByTime(bars) {
		logger.Fatal("bar series is not strictly ascending in time")
	}

	strat := strategies.NewBollingerTrendStrategy()
	strat.Window = cfg.Strategy.Window
	strat.StdDev = cfg.Strategy.StdDev
	strat.ADXWindow = cfg.Strategy.ADXWindow
	strat.ADXThreshold = cfg.Strategy.ADXThreshold
	if err := strat.Load(bars); err != nil {
		logger.Fatal("strategy load", zap.Error(err))
	}
	signals, err := strat.Signals()
	if err != nil {
		logger.Fatal("signal generation", zap.Error(err))
	}

	sim := engine.NewSimulator(engine.SimConfig{
		Symbol:          cfg.Run.Symbol,
		Sector:          cfg.Run.Sector,
		AssetClass:      assetClass(cfg.Run.AssetClass),
		InitialCapital:  cfg.Run.InitialCapital,
		SlippageBps:     cfg.Execution.SlippageBps,
		TargetAnnualVol: cfg.Execution.TargetAnnualVol,
		Limits: engine.RiskLimits{
			MaxDrawdown:       cfg.Risk.MaxDrawdownLimit,
			MaxSectorExposure: cfg.Risk.MaxSectorExposure,
			MaxPositions:      cfg.Risk.MaxPositions,
		},
	}, logger.Named("sim"))

	result, err := sim.Run(bars, signals)
	if err != nil {
		logger.Fatal("backtest run", zap.Error(err))
	}

	ts := &analytics.Tearsheet{Curve: result.Curve, Trades: result.Trades}
	ts.WriteReport(os.Stdout)

	if *arrowOut != "" {
		store := arrowstore.NewStore(logger.Named("arrow"))
		data, err := store.EncodeEquityCurve(result.Curve)
		if err != nil {
			logger.Fatal("encode equity curve", zap.Error(err))
		}
		if err := os.WriteFile(*arrowOut, data, 0o644); err != nil {
			logger.Fatal("write arrow output", zap.Error(err))
		}
		logger.Info("equity curve exported", zap.String("path", *arrowOut))
	}
}

func loadBars(cfg *config.Config, logger *zap.Logger, source, csvPath string, days int, from, to, interval string) ([]engine.Bar, error) {
	switch source {
	case "csv":
		if csvPath == "" {
			return nil, fmt.Errorf("source=csv requires -csv")
		}
		return marketdata.LoadCSV(csvPath)

	case "clickhouse":
		fromTime, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, fmt.Errorf("parse -from: %w", err)
		}
		toTime, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, fmt.Errorf("parse -to: %w", err)
		}
		client, err := clickhouse.NewClient(clickhouse.Options{
			Addr:     cfg.ClickHouse.Addr,
			Database: cfg.ClickHouse.Database,
			Username: cfg.ClickHouse.Username,
			Password: cfg.ClickHouse.Password,
			Table:    cfg.ClickHouse.Table,
		}, logger.Named("clickhouse"))
		if err != nil {
			return nil, err
		}
		defer client.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		return client.LoadBars(ctx, cfg.Run.Symbol, interval, fromTime, toTime)

	case "synthetic":
		start := time.Now().UTC().AddDate(0, 0, -days*2)
		return marketdata.SyntheticDaily(start, days), nil

	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

func assetClass(name string) engine.AssetClass {
	if strings.EqualFold(name, "INTRADAY") {
		return engine.AssetIntraday
	}
	return engine.AssetEquity
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	_ = lvl.Set(strings.ToLower(level))
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	return logger
}
