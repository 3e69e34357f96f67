package market

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownTimeframe is returned by ParseTimeframe for unsupported values.
var ErrUnknownTimeframe = errors.New("unknown timeframe")

// BaseInterval is the spacing of the finest-grained candles.
const BaseInterval = 15 * time.Minute

// Timeframe is the bucket width shown on the candlestick chart.
type Timeframe string

const (
	M15 Timeframe = "15m"
	H1  Timeframe = "1h"
	H4  Timeframe = "4h"
	H12 Timeframe = "12h"
	D1  Timeframe = "1d"
)

type timeframeMeta struct {
	multiple    int
	tolerance   int64 // seconds
	offsetRatio float64
}

var timeframes = map[Timeframe]timeframeMeta{
	M15: {multiple: 1, tolerance: 900, offsetRatio: 0.10},
	H1:  {multiple: 4, tolerance: 1800, offsetRatio: 0.08},
	H4:  {multiple: 16, tolerance: 7200, offsetRatio: 0.06},
	H12: {multiple: 48, tolerance: 21600, offsetRatio: 0.05},
	D1:  {multiple: 96, tolerance: 43200, offsetRatio: 0.04},
}

// Timeframes lists every supported timeframe from finest to coarsest.
func Timeframes() []Timeframe {
	return []Timeframe{M15, H1, H4, H12, D1}
}

// ParseTimeframe accepts "15m", "1h", "4h", "12h" and "1d" (case-insensitive).
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.ToLower(strings.TrimSpace(s)))
	if !tf.Valid() {
		return "", fmt.Errorf("%w %q (supported: 15m, 1h, 4h, 12h, 1d)", ErrUnknownTimeframe, s)
	}
	return tf, nil
}

func (tf Timeframe) Valid() bool {
	_, ok := timeframes[tf]
	return ok
}

func (tf Timeframe) String() string {
	return string(tf)
}

// Multiple is the number of base candles folded into one candle of tf.
// It returns 0 for an unknown timeframe.
func (tf Timeframe) Multiple() int {
	return timeframes[tf].multiple
}

// Duration is the bar width of tf.
func (tf Timeframe) Duration() time.Duration {
	return time.Duration(tf.Multiple()) * BaseInterval
}

// Tolerance is the maximum distance in seconds between a signal and the
// candle it is drawn on.
func (tf Timeframe) Tolerance() int64 {
	return timeframes[tf].tolerance
}

// OffsetRatio is the default fraction of a candle's range used to push a
// signal marker clear of the candle.
func (tf Timeframe) OffsetRatio() float64 {
	return timeframes[tf].offsetRatio
}
