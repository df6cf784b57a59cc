// Package clickhouse stores and retrieves bar history in ClickHouse using
// the same canonical OHLCV table the ingest tooling writes.
package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"alphaledger/services/engine"
)

type Options struct {
	Addr     string
	Database string
	Username string
	Password string
	Table    string
}

type Client struct {
	conn   driver.Conn
	table  string
	logger *zap.Logger
}

func NewClient(opts Options, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		DialTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	table := opts.Table
	if table == "" {
		table = "data"
	}
	return &Client{conn: conn, table: table, logger: logger}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// LoadBars fetches the bar series for one symbol and interval in ascending
// time order over [from, to).
func (c *Client) LoadBars(ctx context.Context, symbol, interval string, from, to time.Time) ([]engine.Bar, error) {
	query := fmt.Sprintf(`
SELECT open_time_ms,
       toFloat64(open), toFloat64(high), toFloat64(low), toFloat64(close),
       toFloat64(volume_base)
FROM %s
WHERE symbol = ? AND interval = ?
  AND open_time_ms >= ? AND open_time_ms < ?
ORDER BY open_time_ms`, c.table)

	rows, err := c.conn.Query(ctx, query, symbol, interval, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query bars for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []engine.Bar
	for rows.Next() {
		var ts uint64
		var b engine.Bar
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Timestamp = int64(ts)
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	c.logger.Info("loaded bars from clickhouse",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("count", len(bars)))
	return bars, nil
}

// InsertBars writes a bar series using a prepared batch.
func (c *Client) InsertBars(ctx context.Context, symbol, interval string, bars []engine.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (symbol, interval, open_time_ms, open, high, low, close, volume_base)", c.table)
	batch, err := c.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	for _, b := range bars {
		if err := batch.Append(symbol, interval, uint64(b.Timestamp),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("append bar %d: %w", b.Timestamp, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	c.logger.Info("inserted bars",
		zap.String("symbol", symbol),
		zap.Int("count", len(bars)))
	return nil
}
