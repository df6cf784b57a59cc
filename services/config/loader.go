package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ALPHALEDGER_* environment overrides, and
// returns the final Config. An empty path skips the file and uses defaults
// plus overrides. The caller should invoke Validate afterwards.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// .env is optional; missing files are silently ignored
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// applyEnvOverrides lets operators inject settings at run time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Run.Symbol, "ALPHALEDGER_RUN_SYMBOL")
	setStr(&cfg.Run.Sector, "ALPHALEDGER_RUN_SECTOR")
	setStr(&cfg.Run.AssetClass, "ALPHALEDGER_RUN_ASSET_CLASS")
	setFloat(&cfg.Run.InitialCapital, "ALPHALEDGER_RUN_INITIAL_CAPITAL")

	setFloat(&cfg.Risk.MaxDrawdownLimit, "ALPHALEDGER_RISK_MAX_DRAWDOWN_LIMIT")
	setFloat(&cfg.Risk.MaxSectorExposure, "ALPHALEDGER_RISK_MAX_SECTOR_EXPOSURE")
	setInt(&cfg.Risk.MaxPositions, "ALPHALEDGER_RISK_MAX_POSITIONS")

	setFloat(&cfg.Execution.SlippageBps, "ALPHALEDGER_EXECUTION_SLIPPAGE_BPS")
	setFloat(&cfg.Execution.TargetAnnualVol, "ALPHALEDGER_EXECUTION_TARGET_ANNUAL_VOL")

	setStr(&cfg.ClickHouse.Addr, "ALPHALEDGER_CLICKHOUSE_ADDR")
	setStr(&cfg.ClickHouse.Database, "ALPHALEDGER_CLICKHOUSE_DATABASE")
	setStr(&cfg.ClickHouse.Username, "ALPHALEDGER_CLICKHOUSE_USERNAME")
	setStr(&cfg.ClickHouse.Password, "ALPHALEDGER_CLICKHOUSE_PASSWORD")
	setStr(&cfg.ClickHouse.Table, "ALPHALEDGER_CLICKHOUSE_TABLE")

	setStr(&cfg.Server.Addr, "ALPHALEDGER_SERVER_ADDR")
	setStr(&cfg.LogLevel, "ALPHALEDGER_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
