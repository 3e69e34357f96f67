package signals

import "github.com/rustyeddy/sigchart/market"

const mockCount = 6

// Mock places six alternating buy/sell signals evenly across the time span
// of candles, starting with a buy. It returns nil for empty input.
func Mock(candles []market.Candle) []Signal {
	if len(candles) == 0 {
		return nil
	}

	start := candles[0].Time
	span := candles[len(candles)-1].Time - start
	step := float64(span) / float64(mockCount+1)

	out := make([]Signal, 0, mockCount)
	for k := 1; k <= mockCount; k++ {
		d := Buy
		if k%2 == 0 {
			d = Sell
		}
		out = append(out, Signal{
			Timestamp: start + int64(float64(k)*step),
			Direction: d,
		})
	}
	return out
}
