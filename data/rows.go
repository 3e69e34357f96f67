// Package data parses the raw rows behind the charts and exports aggregated
// candles.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the timestamp layout used by the raw data files.
const DateLayout = "2006-01-02 15:04:05"

// TotalDivisor scales the raw total column (satoshi-like units) down.
const TotalDivisor = 100_000_000

// IndicatorPoint is one bar of the indicator chart: Total feeds the
// histogram and Value feeds the line.
type IndicatorPoint struct {
	Time  int64   `json:"time"`
	Total float64 `json:"total"`
	Value float64 `json:"value"`
}

// ParseRow converts a raw indicator row. Columns: [_, date, _, total, top20].
func ParseRow(row []string) (IndicatorPoint, error) {
	if len(row) < 5 {
		return IndicatorPoint{}, fmt.Errorf("indicator row has %d columns, want at least 5", len(row))
	}
	ts, err := ParseTime(row[1])
	if err != nil {
		return IndicatorPoint{}, err
	}
	total, err := parseFloat(row[3])
	if err != nil {
		return IndicatorPoint{}, fmt.Errorf("total: %w", err)
	}
	value, err := parseFloat(row[4])
	if err != nil {
		return IndicatorPoint{}, fmt.Errorf("top20: %w", err)
	}
	return IndicatorPoint{
		Time:  ts,
		Total: total / TotalDivisor,
		Value: value,
	}, nil
}

// ParseRows converts every row, failing on the first bad one.
func ParseRows(rows [][]string) ([]IndicatorPoint, error) {
	out := make([]IndicatorPoint, 0, len(rows))
	for i, row := range rows {
		p, err := ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ReadIndicator reads indicator rows from CSV. A header row whose date column
// does not parse is skipped.
func ReadIndicator(r io.Reader) ([]IndicatorPoint, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && len(rows[0]) > 1 {
		if _, err := ParseTime(rows[0][1]); err != nil {
			rows = rows[1:]
		}
	}
	return ParseRows(rows)
}

// ParseTime accepts unix seconds or DateLayout (interpreted as UTC).
func ParseTime(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ts, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t.Unix(), nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func readAll(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}
