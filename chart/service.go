// Package chart assembles what the two charts draw: the indicator series and
// the candlestick series with trading signal markers for a timeframe.
package chart

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rustyeddy/sigchart/data"
	"github.com/rustyeddy/sigchart/internal/slogx"
	"github.com/rustyeddy/sigchart/market"
	"github.com/rustyeddy/sigchart/signals"
)

// View is everything the candlestick chart needs for one timeframe.
type View struct {
	Ticker    string                  `json:"ticker"`
	Name      string                  `json:"name"`
	Timeframe market.Timeframe        `json:"timeframe"`
	Candles   []market.Candle         `json:"candles"`
	Signals   []signals.PlottedSignal `json:"signals"`
	// Fallback is true when the signal source failed and mock signals were
	// plotted instead.
	Fallback bool `json:"fallback"`
}

// TimeframeInfo summarises one timeframe of the base data.
type TimeframeInfo struct {
	Timeframe market.Timeframe `json:"timeframe"`
	Interval  string           `json:"interval"`
	Candles   int              `json:"candles"`
}

// Service derives chart data from an immutable base candle sequence.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	base      []market.Candle
	indicator []data.IndicatorPoint
	source    signals.Source
	logger    *slog.Logger
}

// NewService validates base and returns a Service. A nil source means mock
// signals generated from base.
func NewService(base []market.Candle, indicator []data.IndicatorPoint, source signals.Source, logger *slog.Logger) (*Service, error) {
	if err := market.ValidateAll(base); err != nil {
		return nil, fmt.Errorf("base candles: %w", err)
	}
	if source == nil {
		source = signals.NewMockSource(base)
	}
	return &Service{
		base:      base,
		indicator: indicator,
		source:    source,
		logger:    slogx.OrDefault(logger),
	}, nil
}

// Indicator returns the indicator chart series.
func (s *Service) Indicator() []data.IndicatorPoint {
	return s.indicator
}

// Candles aggregates the base candles to tf.
func (s *Service) Candles(tf market.Timeframe) ([]market.Candle, error) {
	return market.AggregateTimeframe(s.base, tf)
}

// Signals fetches raw signals from the configured source.
func (s *Service) Signals(ctx context.Context, ticker string, tf market.Timeframe) ([]signals.Signal, error) {
	return s.source.FetchSignals(ctx, ticker, tf)
}

// View aggregates the candles for tf, fetches signals and aligns them. When
// the source fails the failure is logged and mock signals built from the
// same candles are used. Only a context error is returned in that case.
func (s *Service) View(ctx context.Context, ticker string, tf market.Timeframe, opts ...signals.AlignOption) (View, error) {
	asset, err := market.LookupAsset(ticker)
	if err != nil {
		return View{}, err
	}

	candles, err := s.Candles(tf)
	if err != nil {
		return View{}, err
	}

	v := View{
		Ticker:    asset.Ticker,
		Name:      fmt.Sprintf("%s (%s)", asset.Pair(), tf),
		Timeframe: tf,
		Candles:   candles,
	}

	sigs, err := s.source.FetchSignals(ctx, asset.Ticker, tf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return View{}, ctxErr
		}
		s.logger.Warn("signal source failed, using mock signals",
			slog.String("ticker", asset.Ticker),
			slog.String("timeframe", tf.String()),
			slog.String("error", err.Error()),
		)
		sigs = signals.Mock(candles)
		v.Fallback = true
	}

	v.Signals = signals.Align(sigs, candles, tf, opts...)
	s.logger.Debug("chart view built",
		slog.String("ticker", asset.Ticker),
		slog.String("timeframe", tf.String()),
		slog.Int("candles", len(candles)),
		slog.Int("signals", len(sigs)),
		slog.Int("plotted", len(v.Signals)),
	)
	return v, nil
}

// Info reports the candle count for every timeframe.
func (s *Service) Info() ([]TimeframeInfo, error) {
	out := make([]TimeframeInfo, 0, len(market.Timeframes()))
	for _, tf := range market.Timeframes() {
		candles, err := s.Candles(tf)
		if err != nil {
			return nil, err
		}
		out = append(out, TimeframeInfo{
			Timeframe: tf,
			Interval:  tf.Duration().String(),
			Candles:   len(candles),
		})
	}
	return out, nil
}

// LogInfo writes Info to the service logger.
func (s *Service) LogInfo() {
	info, err := s.Info()
	if err != nil {
		s.logger.Error("aggregation info", slog.String("error", err.Error()))
		return
	}
	for _, i := range info {
		s.logger.Info("aggregation",
			slog.String("timeframe", i.Timeframe.String()),
			slog.String("interval", i.Interval),
			slog.Int("candles", i.Candles),
		)
	}
}
