// Package signals aligns buy/sell trading signals with candles and supplies
// them from mock, static, HTTP or stored sources.
package signals

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned when a direction is neither buy nor sell.
var ErrUnknownDirection = errors.New("unknown signal direction")

// Direction of a trading signal.
type Direction string

const (
	Buy  Direction = "buy"
	Sell Direction = "sell"
)

// ParseDirection accepts "buy" or "sell" in any case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Buy, Sell:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Signal is a timestamped directional marker. Timestamp is unix seconds.
type Signal struct {
	Timestamp int64     `json:"timestamp"`
	Direction Direction `json:"signal"`
}

// PlottedSignal is a signal pinned to a candle, with the price at which the
// marker is drawn.
type PlottedSignal struct {
	CandleTime   int64     `json:"candle_time"`
	DisplayValue float64   `json:"display_value"`
	Direction    Direction `json:"signal"`
}
