package market

import "fmt"

// Aggregate folds consecutive chunks of multiple candles into one candle
// each. The input is assumed equally spaced, so buckets are counted in
// candles rather than in wall-clock time. A trailing partial chunk is still
// emitted.
//
// Each output candle takes its time and open from the first candle of the
// chunk, its close from the last, the max high, min low and summed volume.
// Aggregate rejects a multiple below 1 and any candle that breaks the OHLC
// ordering with ErrInvalidInput.
func Aggregate(candles []Candle, multiple int) ([]Candle, error) {
	if multiple < 1 {
		return nil, fmt.Errorf("%w: aggregation multiple %d must be >= 1", ErrInvalidInput, multiple)
	}
	if err := ValidateAll(candles); err != nil {
		return nil, err
	}

	if multiple == 1 {
		out := make([]Candle, len(candles))
		copy(out, candles)
		return out, nil
	}

	out := make([]Candle, 0, (len(candles)+multiple-1)/multiple)
	for start := 0; start < len(candles); start += multiple {
		end := min(start+multiple, len(candles))
		chunk := candles[start:end]

		agg := Candle{
			Time:  chunk[0].Time,
			Open:  chunk[0].Open,
			High:  chunk[0].High,
			Low:   chunk[0].Low,
			Close: chunk[len(chunk)-1].Close,
		}
		for _, c := range chunk {
			if c.High > agg.High {
				agg.High = c.High
			}
			if c.Low < agg.Low {
				agg.Low = c.Low
			}
			agg.Volume += c.Volume
		}
		out = append(out, agg)
	}
	return out, nil
}

// AggregateTimeframe aggregates base (15 minute) candles to tf.
func AggregateTimeframe(candles []Candle, tf Timeframe) ([]Candle, error) {
	if !tf.Valid() {
		return nil, fmt.Errorf("%w: %w %q", ErrInvalidInput, ErrUnknownTimeframe, tf)
	}
	return Aggregate(candles, tf.Multiple())
}
