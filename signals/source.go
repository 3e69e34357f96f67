package signals

import (
	"context"

	"github.com/rustyeddy/sigchart/market"
)

// Source supplies raw signals for a ticker and timeframe.
type Source interface {
	FetchSignals(ctx context.Context, ticker string, tf market.Timeframe) ([]Signal, error)
}

// StaticSource always returns the same signals.
type StaticSource []Signal

func (s StaticSource) FetchSignals(ctx context.Context, ticker string, tf market.Timeframe) ([]Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Signal, len(s))
	copy(out, s)
	return out, nil
}

// MockSource generates Mock signals from an explicit base candle sequence
// aggregated to the requested timeframe.
type MockSource struct {
	Base []market.Candle
}

func NewMockSource(base []market.Candle) *MockSource {
	return &MockSource{Base: base}
}

func (m *MockSource) FetchSignals(ctx context.Context, ticker string, tf market.Timeframe) ([]Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candles, err := market.AggregateTimeframe(m.Base, tf)
	if err != nil {
		return nil, err
	}
	return Mock(candles), nil
}
