package signals

import (
	"sort"

	"github.com/rustyeddy/sigchart/market"
)

const (
	clampLow  = 0.95
	clampHigh = 1.05
)

type alignConfig struct {
	ratio    float64
	override bool
}

// AlignOption configures Align.
type AlignOption func(*alignConfig)

// WithOffsetRatio replaces the timeframe's default offset ratio. Zero is a
// valid override and draws markers on the candle's low or high.
func WithOffsetRatio(r float64) AlignOption {
	return func(c *alignConfig) {
		c.ratio = r
		c.override = true
	}
}

// Align pins each signal to its nearest candle and computes where its marker
// is drawn.
//
// A signal further than tf.Tolerance() seconds from every candle is dropped.
// When several signals land on the same candle the last one in input order
// wins. Buy markers sit below the candle low and sell markers above the high,
// offset by the candle range times the offset ratio (a zero range counts as
// 1), then clamped into [0.95*min low, 1.05*max high] over all candles.
//
// candles must be sorted by Time. The result is ordered by candle time.
func Align(sigs []Signal, candles []market.Candle, tf market.Timeframe, opts ...AlignOption) []PlottedSignal {
	if len(candles) == 0 || len(sigs) == 0 {
		return []PlottedSignal{}
	}

	cfg := alignConfig{ratio: tf.OffsetRatio()}
	for _, opt := range opts {
		opt(&cfg)
	}

	tol := tf.Tolerance()
	byCandle := make(map[int]Signal)
	for _, s := range sigs {
		idx, diff := nearest(candles, s.Timestamp)
		if diff > tol {
			continue
		}
		byCandle[idx] = s
	}

	idxs := make([]int, 0, len(byCandle))
	for idx := range byCandle {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	minLow, maxHigh, _ := market.Bounds(candles)
	floor := minLow * clampLow
	ceil := maxHigh * clampHigh

	out := make([]PlottedSignal, 0, len(idxs))
	for _, idx := range idxs {
		c := candles[idx]
		s := byCandle[idx]
		out = append(out, PlottedSignal{
			CandleTime:   c.Time,
			DisplayValue: clamp(MarkerValue(c, s.Direction, cfg.ratio), floor, ceil),
			Direction:    s.Direction,
		})
	}
	return out
}

// MarkerValue is the unclamped marker price for a signal on c.
func MarkerValue(c market.Candle, d Direction, ratio float64) float64 {
	rng := c.Range()
	if rng == 0 {
		rng = 1
	}
	offset := rng * ratio
	if d == Buy {
		return c.Low - offset
	}
	return c.High + offset
}

// nearest returns the index of the candle closest to ts and the absolute
// distance in seconds. Ties go to the earlier candle.
func nearest(candles []market.Candle, ts int64) (int, int64) {
	i := sort.Search(len(candles), func(i int) bool {
		return candles[i].Time >= ts
	})

	best := i
	switch {
	case i == len(candles):
		best = i - 1
	case i > 0 && ts-candles[i-1].Time <= candles[i].Time-ts:
		best = i - 1
	}
	for best > 0 && candles[best-1].Time == candles[best].Time {
		best--
	}
	return best, abs(candles[best].Time - ts)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
