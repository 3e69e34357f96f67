package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidInput is returned when a candle sequence or an aggregation
// multiple cannot be processed.
var ErrInvalidInput = errors.New("invalid input")

// Candle represents OHLC (Open, High, Low, Close) candlestick data with
// volume. Time is the open time of the bar in unix seconds.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Timestamp returns the candle open time as a UTC time.Time.
func (c Candle) Timestamp() time.Time {
	return time.Unix(c.Time, 0).UTC()
}

// Range is High - Low.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// Validate checks low <= min(open, close) <= max(open, close) <= high.
func (c Candle) Validate() error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: candle at %d has a non-finite price", ErrInvalidInput, c.Time)
		}
	}
	lo := math.Min(c.Open, c.Close)
	hi := math.Max(c.Open, c.Close)
	if c.Low > lo || hi > c.High {
		return fmt.Errorf("%w: candle at %d violates low <= open,close <= high (o=%g h=%g l=%g c=%g)",
			ErrInvalidInput, c.Time, c.Open, c.High, c.Low, c.Close)
	}
	return nil
}

// ValidateAll validates every candle and returns the first failure.
func ValidateAll(candles []Candle) error {
	for i, c := range candles {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("candle %d: %w", i, err)
		}
	}
	return nil
}

// Bounds returns the lowest low and highest high across candles.
// ok is false when candles is empty.
func Bounds(candles []Candle) (minLow, maxHigh float64, ok bool) {
	if len(candles) == 0 {
		return 0, 0, false
	}
	minLow = math.Inf(1)
	maxHigh = math.Inf(-1)
	for _, c := range candles {
		if c.Low < minLow {
			minLow = c.Low
		}
		if c.High > maxHigh {
			maxHigh = c.High
		}
	}
	return minLow, maxHigh, true
}
