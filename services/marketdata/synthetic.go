package marketdata

import (
	"time"

	"alphaledger/services/engine"
)

// SyntheticDaily generates a deterministic business-day ramp series for
// offline and test runs: prices drift upward one unit per day with a fixed
// intraday range.
func SyntheticDaily(start time.Time, days int) []engine.Bar {
	bars := make([]engine.Bar, 0, days)
	day := start.UTC()
	for len(bars) < days {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			i := float64(len(bars))
			bars = append(bars, engine.Bar{
				Timestamp: day.UnixMilli(),
				Open:      100 + i,
				High:      105 + i,
				Low:       98 + i,
				Close:     102 + i,
				Volume:    100_000 + i*1000,
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return bars
}
