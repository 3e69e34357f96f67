package signals

import (
	"testing"

	"github.com/rustyeddy/sigchart/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candlesAt(t0 int64, step int64, n int) []market.Candle {
	out := make([]market.Candle, n)
	for i := 0; i < n; i++ {
		p := 100 + float64(i%9)*3 - float64(i%4)
		out[i] = market.Candle{
			Time:   t0 + int64(i)*step,
			Open:   p,
			High:   p + 1 + float64(i%3),
			Low:    p - 2 - float64(i%5),
			Close:  p + 0.5,
			Volume: 1,
		}
	}
	return out
}

func TestAlignLastWriteWins(t *testing.T) {
	candles := []market.Candle{{Time: 100, Open: 10, High: 12, Low: 9, Close: 11}}
	sigs := []Signal{
		{Timestamp: 100, Direction: Buy},
		{Timestamp: 105, Direction: Sell},
	}

	out := Align(sigs, candles, market.M15)
	require.Len(t, out, 1)
	assert.Equal(t, int64(100), out[0].CandleTime)
	assert.Equal(t, Sell, out[0].Direction)
	assert.InDelta(t, 12.3, out[0].DisplayValue, 1e-9)
}

func TestAlignOutsideTolerance(t *testing.T) {
	candles := candlesAt(1_700_000_000, 900, 20)

	for _, tf := range market.Timeframes() {
		t.Run(tf.String(), func(t *testing.T) {
			tol := tf.Tolerance()
			sigs := []Signal{
				{Timestamp: candles[0].Time - 2*tol, Direction: Buy},
				{Timestamp: candles[len(candles)-1].Time + 2*tol, Direction: Sell},
			}
			assert.Empty(t, Align(sigs, candles, tf))
		})
	}
}

func TestAlignToleranceBoundary(t *testing.T) {
	candles := candlesAt(0, 3600, 3)
	sigs := []Signal{{Timestamp: 2*3600 + 1800, Direction: Buy}}

	out := Align(sigs, candles, market.H1)
	require.Len(t, out, 1)
	assert.Equal(t, int64(2*3600), out[0].CandleTime)

	sigs[0].Timestamp++
	assert.Empty(t, Align(sigs, candles, market.H1))
}

func TestAlignEmptyCandles(t *testing.T) {
	out := Align([]Signal{{Timestamp: 1, Direction: Buy}}, nil, market.M15)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out = Align(nil, candlesAt(0, 900, 4), market.M15)
	assert.Empty(t, out)
}

func TestAlignTieGoesToEarlierCandle(t *testing.T) {
	candles := candlesAt(0, 900, 4)
	out := Align([]Signal{{Timestamp: 1350, Direction: Sell}}, candles, market.M15)
	require.Len(t, out, 1)
	assert.Equal(t, int64(900), out[0].CandleTime)
}

func TestAlignNearestMatchesLinearScan(t *testing.T) {
	candles := candlesAt(1_000, 900, 50)

	for ts := int64(0); ts < 50*900+3000; ts += 37 {
		want, wantDiff := 0, abs(candles[0].Time-ts)
		for i, c := range candles {
			if d := abs(c.Time - ts); d < wantDiff {
				want, wantDiff = i, d
			}
		}
		got, gotDiff := nearest(candles, ts)
		require.Equal(t, want, got, "ts=%d", ts)
		require.Equal(t, wantDiff, gotDiff, "ts=%d", ts)
	}
}

func TestAlignDropsOutOfToleranceBeforeDedup(t *testing.T) {
	candles := candlesAt(0, 900, 4)
	last := candles[3].Time
	sigs := []Signal{
		{Timestamp: last + 100, Direction: Buy},
		// nearest candle is the same, but far outside tolerance
		{Timestamp: last + 5000, Direction: Sell},
	}

	out := Align(sigs, candles, market.M15)
	require.Len(t, out, 1)
	assert.Equal(t, Buy, out[0].Direction)
}

func TestAlignMarkerSides(t *testing.T) {
	candles := candlesAt(1_700_000_000, 900, 40)

	var sigs []Signal
	for i, c := range candles {
		d := Buy
		if i%2 == 1 {
			d = Sell
		}
		sigs = append(sigs, Signal{Timestamp: c.Time + 60, Direction: d})
	}

	for _, tf := range market.Timeframes() {
		for _, c := range candles {
			assert.LessOrEqual(t, MarkerValue(c, Buy, tf.OffsetRatio()), c.Low)
			assert.GreaterOrEqual(t, MarkerValue(c, Sell, tf.OffsetRatio()), c.High)
		}
	}

	out := Align(sigs, candles, market.M15)
	require.Len(t, out, len(candles))
	for i, p := range out {
		c := candles[i]
		assert.Equal(t, c.Time, p.CandleTime)
		if p.Direction == Buy {
			assert.Less(t, p.DisplayValue, c.Low)
		} else {
			assert.Greater(t, p.DisplayValue, c.High)
		}
	}
}

func TestAlignClamp(t *testing.T) {
	candles := candlesAt(0, 900, 10)
	lo, hi, _ := market.Bounds(candles)

	sigs := []Signal{
		{Timestamp: 0, Direction: Buy},
		{Timestamp: 900, Direction: Sell},
		{Timestamp: 1800, Direction: Buy},
	}

	out := Align(sigs, candles, market.M15, WithOffsetRatio(50))
	require.Len(t, out, 3)
	assert.Equal(t, 0.95*lo, out[0].DisplayValue)
	assert.Equal(t, 1.05*hi, out[1].DisplayValue)

	for _, p := range out {
		assert.GreaterOrEqual(t, p.DisplayValue, 0.95*lo)
		assert.LessOrEqual(t, p.DisplayValue, 1.05*hi)
	}
}

func TestAlignOffsetRatio(t *testing.T) {
	candles := []market.Candle{
		{Time: 0, Open: 100, High: 110, Low: 90, Close: 105},
		{Time: 86400, Open: 100, High: 100, Low: 100, Close: 100},
	}
	sigs := []Signal{
		{Timestamp: 0, Direction: Buy},
		{Timestamp: 86400, Direction: Sell},
	}

	out := Align(sigs, candles, market.D1)
	require.Len(t, out, 2)
	assert.InDelta(t, 90-20*0.04, out[0].DisplayValue, 1e-9)
	// zero range counts as 1
	assert.InDelta(t, 100+1*0.04, out[1].DisplayValue, 1e-9)

	out = Align(sigs, candles, market.D1, WithOffsetRatio(0))
	require.Len(t, out, 2)
	assert.Equal(t, 90.0, out[0].DisplayValue)
	assert.Equal(t, 100.0, out[1].DisplayValue)
}
