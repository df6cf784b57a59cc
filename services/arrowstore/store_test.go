package arrowstore

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"alphaledger/services/engine"
)

func TestBarsSurviveEncodeDecode(t *testing.T) {
	store := NewStore(nil)
	in := []engine.Bar{
		{Timestamp: 1000, Open: 100, High: 105, Low: 98, Close: 102, Volume: 5000},
		{Timestamp: 2000, Open: 102, High: 110, Low: 101, Close: 109, Volume: 7000},
	}

	data, err := store.EncodeBars("RELIANCE", in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	symbol, out, err := store.DecodeBars(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if symbol != "RELIANCE" {
		t.Fatalf("symbol = %q", symbol)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d bars, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("bar %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestEncodeRejectsEmptyInput(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.EncodeBars("X", nil); err == nil {
		t.Fatalf("empty bar set encoded")
	}
	if _, err := store.EncodeEquityCurve(nil); err == nil {
		t.Fatalf("empty curve encoded")
	}
}

func TestFileRoundTrip(t *testing.T) {
	store := NewStore(nil)
	path := filepath.Join(t.TempDir(), "bars.arrow")
	in := []engine.Bar{{Timestamp: 1, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}}

	if err := store.WriteFile(path, "TCS", in); err != nil {
		t.Fatalf("write: %v", err)
	}
	symbol, out, err := store.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if symbol != "TCS" || len(out) != 1 || out[0] != in[0] {
		t.Fatalf("round trip mismatch: %q %+v", symbol, out)
	}
}

func TestEquityCurveEncodes(t *testing.T) {
	store := NewStore(nil)
	curve := []engine.EquityPoint{
		{Timestamp: 1, Equity: decimal.NewFromInt(1000)},
		{Timestamp: 2, Equity: decimal.NewFromInt(1100)},
	}
	data, err := store.EncodeEquityCurve(curve)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty ipc payload")
	}
}
