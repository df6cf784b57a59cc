package marketdata

import (
	"testing"

	"alphaledger/services/engine"
)

func TestResampleAggregatesBuckets(t *testing.T) {
	const fiveMin = int64(5 * 60 * 1000)
	// Three 5m bars inside one 15m bucket, one bar in the next.
	bars := []engine.Bar{
		{Timestamp: 0, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 10},
		{Timestamp: fiveMin, Open: 100.5, High: 103, Low: 100, Close: 102, Volume: 20},
		{Timestamp: 2 * fiveMin, Open: 102, High: 102.5, Low: 98, Close: 99, Volume: 30},
		{Timestamp: 3 * fiveMin, Open: 99, High: 100, Low: 98.5, Close: 99.5, Volume: 5},
	}

	out, err := Resample(bars, 3*fiveMin)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(out))
	}

	first := out[0]
	if first.Timestamp != 0 {
		t.Fatalf("first bucket timestamp = %d, want 0", first.Timestamp)
	}
	if first.Open != 100 || first.Close != 99 {
		t.Fatalf("first bucket open/close = %v/%v, want 100/99", first.Open, first.Close)
	}
	if first.High != 103 || first.Low != 98 {
		t.Fatalf("first bucket high/low = %v/%v, want 103/98", first.High, first.Low)
	}
	if first.Volume != 60 {
		t.Fatalf("first bucket volume = %v, want 60", first.Volume)
	}

	second := out[1]
	if second.Timestamp != 3*fiveMin {
		t.Fatalf("second bucket timestamp = %d, want %d", second.Timestamp, 3*fiveMin)
	}
	if second.Volume != 5 {
		t.Fatalf("second bucket volume = %v, want 5", second.Volume)
	}
}

func TestResampleUnsortedInput(t *testing.T) {
	const hour = int64(60 * 60 * 1000)
	bars := []engine.Bar{
		{Timestamp: hour, Open: 2, High: 2, Low: 2, Close: 2, Volume: 1},
		{Timestamp: 0, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1},
	}
	out, err := Resample(bars, hour)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if len(out) != 2 || out[0].Timestamp != 0 || out[1].Timestamp != hour {
		t.Fatalf("buckets not in ascending time order: %+v", out)
	}
}

func TestResampleRejectsBadBucket(t *testing.T) {
	if _, err := Resample(nil, 0); err == nil {
		t.Fatal("expected error for zero bucket size")
	}
}
