package data

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/sigchart/market"
)

// Bar is the export row for an aggregated candle.
type Bar struct {
	Time   int64   `json:"time" parquet:"time"`
	Open   float64 `json:"open" parquet:"open"`
	High   float64 `json:"high" parquet:"high"`
	Low    float64 `json:"low" parquet:"low"`
	Close  float64 `json:"close" parquet:"close"`
	Volume float64 `json:"volume" parquet:"volume"`
}

// Bars converts candles to export rows.
func Bars(candles []market.Candle) []Bar {
	out := make([]Bar, len(candles))
	for i, c := range candles {
		out[i] = Bar{
			Time:   c.Time,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		}
	}
	return out
}

// Saver writes aggregated candles to a file.
type Saver interface {
	Save(bars []Bar, path string) error
	Extension() string
}

// Formats lists the export formats NewSaver accepts.
var Formats = []string{"csv", "json", "parquet"}

// NewSaver returns the saver for format (csv, json or parquet).
func NewSaver(format string) (Saver, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}, nil
	case "json":
		return JSONSaver{}, nil
	case "parquet":
		return ParquetSaver{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use: %s)", format, strings.Join(Formats, ", "))
	}
}
