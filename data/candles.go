package data

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rustyeddy/sigchart/market"
	"github.com/rustyeddy/sigchart/signals"
)

// ReadCandles reads OHLCV rows: time,open,high,low,close,volume. An optional
// header row starting with "time" is skipped. Candles are validated but not
// reordered.
func ReadCandles(r io.Reader) ([]market.Candle, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && isHeader(rows[0], "time") {
		rows = rows[1:]
	}

	out := make([]market.Candle, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("candle row %d: has %d columns, want 6", i+1, len(row))
		}
		ts, err := ParseTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("candle row %d: %w", i+1, err)
		}
		var vals [5]float64
		for j := range vals {
			if vals[j], err = parseFloat(row[j+1]); err != nil {
				return nil, fmt.Errorf("candle row %d column %d: %w", i+1, j+2, err)
			}
		}
		out = append(out, market.Candle{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}

	if err := market.ValidateAll(out); err != nil {
		return nil, err
	}
	for i := 1; i < len(out); i++ {
		if out[i].Time <= out[i-1].Time {
			return nil, fmt.Errorf("%w: candle %d at %d is not after %d", market.ErrInvalidInput, i, out[i].Time, out[i-1].Time)
		}
	}
	return out, nil
}

// ReadSignals reads timestamp,signal rows with an optional header.
func ReadSignals(r io.Reader) ([]signals.Signal, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && isHeader(rows[0], "timestamp") {
		rows = rows[1:]
	}

	out := make([]signals.Signal, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("signal row %d: has %d columns, want 2", i+1, len(row))
		}
		ts, err := ParseTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("signal row %d: %w", i+1, err)
		}
		d, err := signals.ParseDirection(row[1])
		if err != nil {
			return nil, fmt.Errorf("signal row %d: %w", i+1, err)
		}
		out = append(out, signals.Signal{Timestamp: ts, Direction: d})
	}
	return out, nil
}

// LoadCandles opens path and reads it with ReadCandles.
func LoadCandles(path string) ([]market.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCandles(f)
}

// LoadSignals opens path and reads it with ReadSignals.
func LoadSignals(path string) ([]signals.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSignals(f)
}

// LoadIndicator opens path and reads it with ReadIndicator.
func LoadIndicator(path string) ([]IndicatorPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadIndicator(f)
}

func isHeader(row []string, first string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), first)
}
