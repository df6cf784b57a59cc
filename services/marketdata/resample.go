package marketdata

import (
	"fmt"
	"sort"

	"alphaledger/services/engine"
)

// Resample aggregates bars into epoch-aligned buckets of bucketMs
// milliseconds. Within a bucket the first bar seen provides the open
// and the last the close, so input should be time ordered. High and
// low are the extremes, volume the sum. Output timestamps are bucket
// starts in ascending order.
func Resample(bars []engine.Bar, bucketMs int64) ([]engine.Bar, error) {
	if bucketMs <= 0 {
		return nil, fmt.Errorf("bucket size must be positive, got %d", bucketMs)
	}
	if len(bars) == 0 {
		return nil, nil
	}

	buckets := make(map[int64]*engine.Bar)
	var order []int64

	for _, b := range bars {
		bucket := (b.Timestamp / bucketMs) * bucketMs
		agg, ok := buckets[bucket]
		if !ok {
			nb := b
			nb.Timestamp = bucket
			buckets[bucket] = &nb
			order = append(order, bucket)
			continue
		}
		if b.High > agg.High {
			agg.High = b.High
		}
		if b.Low < agg.Low {
			agg.Low = b.Low
		}
		agg.Close = b.Close
		agg.Volume += b.Volume
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	out := make([]engine.Bar, 0, len(order))
	for _, ts := range order {
		out = append(out, *buckets[ts])
	}
	return out, nil
}
