// Package marketdata loads and validates bar series from local files and
// generates synthetic fixtures for offline runs.
package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"alphaledger/services/engine"
)

// LoadCSV reads bars from a CSV with columns
// timestamp_ms,open,high,low,close,volume. A header row is skipped and
// UTF-16/BOM-prefixed exports (common from spreadsheet tooling) are decoded
// transparently.
func LoadCSV(path string) ([]engine.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := decodedReader(f)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var bars []engine.Bar
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", path, row, err)
		}
		row++
		if len(rec) < 5 {
			continue
		}
		first := strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff"))
		if row == 1 && (strings.EqualFold(first, "timestamp") || strings.EqualFold(first, "timestamp_ms")) {
			continue
		}

		ts, err := strconv.ParseInt(first, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad timestamp %q", path, row, rec[0])
		}
		bar := engine.Bar{Timestamp: ts}
		for i, dst := range []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close} {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: bad price %q", path, row, rec[i+1])
			}
			*dst = v
		}
		if len(rec) > 5 {
			if v, err := strconv.ParseFloat(strings.TrimSpace(rec[5]), 64); err == nil {
				bar.Volume = v
			}
		}
		if err := validateBar(bar); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars in %s", path)
	}
	return bars, nil
}

// decodedReader sniffs a UTF-16 byte order mark and wraps the file in the
// matching decoder; plain UTF-8 files pass through untouched.
func decodedReader(f *os.File) (io.Reader, error) {
	head := make([]byte, 2)
	n, _ := f.Read(head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if n >= 2 && ((head[0] == 0xFF && head[1] == 0xFE) || (head[0] == 0xFE && head[1] == 0xFF)) {
		endian := unicode.LittleEndian
		if head[0] == 0xFE {
			endian = unicode.BigEndian
		}
		return transform.NewReader(f, unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()), nil
	}
	return f, nil
}

func validateBar(b engine.Bar) error {
	if b.High < b.Low {
		return fmt.Errorf("high %.8f below low %.8f", b.High, b.Low)
	}
	if b.High < b.Open || b.High < b.Close {
		return fmt.Errorf("high %.8f below open/close", b.High)
	}
	if b.Low > b.Open || b.Low > b.Close {
		return fmt.Errorf("low %.8f above open/close", b.Low)
	}
	if b.Volume < 0 {
		return fmt.Errorf("negative volume %.4f", b.Volume)
	}
	return nil
}
