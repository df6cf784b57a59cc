package engine

// Bar represents a single OHLCV bar for one instrument
type Bar struct {
	Timestamp int64 // open time, ms since epoch
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Signal is the per-bar directive from a strategy: +1 long, -1 exit/short, 0 hold.
// Volatility carries the strategy's rolling daily volatility estimate for
// sizing and slippage scaling; zero means not yet available (warmup).
type Signal struct {
	Timestamp  int64
	Direction  int
	Volatility float64
}
