// Package arrowstore persists bar series and equity curves as Arrow IPC
// streams, the columnar on-disk format shared with downstream analysis
// tooling.
package arrowstore

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"go.uber.org/zap"

	"alphaledger/services/engine"
)

var barSchema = arrow.NewSchema([]arrow.Field{
	{Name: "symbol", Type: arrow.BinaryTypes.String},
	{Name: "timestamp", Type: arrow.PrimitiveTypes.Int64},
	{Name: "open", Type: arrow.PrimitiveTypes.Float64},
	{Name: "high", Type: arrow.PrimitiveTypes.Float64},
	{Name: "low", Type: arrow.PrimitiveTypes.Float64},
	{Name: "close", Type: arrow.PrimitiveTypes.Float64},
	{Name: "volume", Type: arrow.PrimitiveTypes.Float64},
}, nil)

var equitySchema = arrow.NewSchema([]arrow.Field{
	{Name: "timestamp", Type: arrow.PrimitiveTypes.Int64},
	{Name: "equity", Type: arrow.PrimitiveTypes.Float64},
}, nil)

type Store struct {
	pool   memory.Allocator
	logger *zap.Logger
}

func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{pool: memory.NewGoAllocator(), logger: logger}
}

// EncodeBars serializes one symbol's bar series to an Arrow IPC stream.
func (s *Store) EncodeBars(symbol string, bars []engine.Bar) ([]byte, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars to encode")
	}

	symBuilder := array.NewStringBuilder(s.pool)
	tsBuilder := array.NewInt64Builder(s.pool)
	openBuilder := array.NewFloat64Builder(s.pool)
	highBuilder := array.NewFloat64Builder(s.pool)
	lowBuilder := array.NewFloat64Builder(s.pool)
	closeBuilder := array.NewFloat64Builder(s.pool)
	volBuilder := array.NewFloat64Builder(s.pool)

	for _, b := range bars {
		symBuilder.Append(symbol)
		tsBuilder.Append(b.Timestamp)
		openBuilder.Append(b.Open)
		highBuilder.Append(b.High)
		lowBuilder.Append(b.Low)
		closeBuilder.Append(b.Close)
		volBuilder.Append(b.Volume)
	}

	record := array.NewRecord(barSchema, []arrow.Array{
		symBuilder.NewStringArray(),
		tsBuilder.NewInt64Array(),
		openBuilder.NewFloat64Array(),
		highBuilder.NewFloat64Array(),
		lowBuilder.NewFloat64Array(),
		closeBuilder.NewFloat64Array(),
		volBuilder.NewFloat64Array(),
	}, int64(len(bars)))
	defer record.Release()

	return writeIPC(record, barSchema)
}

// DecodeBars reads back a bar stream written by EncodeBars.
func (s *Store) DecodeBars(data []byte) (string, []engine.Bar, error) {
	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(s.pool))
	if err != nil {
		return "", nil, fmt.Errorf("open ipc stream: %w", err)
	}
	defer reader.Release()

	var symbol string
	var bars []engine.Bar
	for reader.Next() {
		rec := reader.Record()
		syms := rec.Column(0).(*array.String)
		ts := rec.Column(1).(*array.Int64)
		opens := rec.Column(2).(*array.Float64)
		highs := rec.Column(3).(*array.Float64)
		lows := rec.Column(4).(*array.Float64)
		closes := rec.Column(5).(*array.Float64)
		vols := rec.Column(6).(*array.Float64)

		for i := 0; i < int(rec.NumRows()); i++ {
			if symbol == "" {
				symbol = syms.Value(i)
			}
			bars = append(bars, engine.Bar{
				Timestamp: ts.Value(i),
				Open:      opens.Value(i),
				High:      highs.Value(i),
				Low:       lows.Value(i),
				Close:     closes.Value(i),
				Volume:    vols.Value(i),
			})
		}
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		return "", nil, err
	}
	return symbol, bars, nil
}

// EncodeEquityCurve serializes an equity curve to an Arrow IPC stream.
func (s *Store) EncodeEquityCurve(curve []engine.EquityPoint) ([]byte, error) {
	if len(curve) == 0 {
		return nil, fmt.Errorf("no equity points to encode")
	}

	tsBuilder := array.NewInt64Builder(s.pool)
	eqBuilder := array.NewFloat64Builder(s.pool)
	for _, p := range curve {
		tsBuilder.Append(p.Timestamp)
		eqBuilder.Append(p.Equity.InexactFloat64())
	}

	record := array.NewRecord(equitySchema, []arrow.Array{
		tsBuilder.NewInt64Array(),
		eqBuilder.NewFloat64Array(),
	}, int64(len(curve)))
	defer record.Release()

	return writeIPC(record, equitySchema)
}

// WriteFile encodes and writes bars to path.
func (s *Store) WriteFile(path, symbol string, bars []engine.Bar) error {
	data, err := s.EncodeBars(symbol, bars)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Info("wrote arrow file", zap.String("path", path), zap.Int("bars", len(bars)))
	return nil
}

// ReadFile loads bars from an Arrow IPC file.
func (s *Store) ReadFile(path string) (string, []engine.Bar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	return s.DecodeBars(data)
}

func writeIPC(record arrow.Record, schema *arrow.Schema) ([]byte, error) {
	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(schema))
	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("write arrow record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
