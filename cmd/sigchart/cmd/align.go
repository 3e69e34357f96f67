package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/sigchart/chart"
	"github.com/rustyeddy/sigchart/data"
	"github.com/rustyeddy/sigchart/market"
	"github.com/rustyeddy/sigchart/signals"
	"github.com/spf13/cobra"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align trading signals with candles",
	Long: `Align pins each signal to its nearest candle for the timeframe, drops
signals outside the timeframe's tolerance, keeps the last signal per candle and
prints the marker price.

Signals come from --signals (CSV: timestamp,signal) or the configured source.

Examples:
  sigchart align -t 4h -s signals.csv
  sigchart align -t 1d --offset-ratio 0.1`,
	RunE: runAlign,
}

var (
	alignTimeframe string
	alignTicker    string
	alignSignals   string
	alignRatio     float64
)

func init() {
	rootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringVarP(&alignTimeframe, "timeframe", "t", "", "timeframe (defaults to chart.timeframe)")
	alignCmd.Flags().StringVar(&alignTicker, "ticker", "", "asset ticker (defaults to chart.ticker)")
	alignCmd.Flags().StringVarP(&alignSignals, "signals", "s", "", "signal CSV (timestamp,signal)")
	alignCmd.Flags().Float64Var(&alignRatio, "offset-ratio", 0, "marker offset as a fraction of candle range")
}

func runAlign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := newLogger(cfg)

	tfStr := alignTimeframe
	if tfStr == "" {
		tfStr = cfg.Chart.Timeframe
	}
	tf, err := market.ParseTimeframe(tfStr)
	if err != nil {
		return err
	}
	ticker := alignTicker
	if ticker == "" {
		ticker = cfg.Chart.Ticker
	}

	base, err := data.LoadCandles(cfg.Data.CandlesPath)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}

	var src signals.Source
	if alignSignals != "" {
		sigs, err := data.LoadSignals(alignSignals)
		if err != nil {
			return fmt.Errorf("load signals: %w", err)
		}
		src = signals.StaticSource(sigs)
	} else {
		s, closer, err := openSource(cfg)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		src = s
	}

	svc, err := chart.NewService(base, nil, src, logger)
	if err != nil {
		return err
	}

	var opts []signals.AlignOption
	switch {
	case cmd.Flags().Changed("offset-ratio"):
		if alignRatio < 0 {
			return fmt.Errorf("--offset-ratio must not be negative")
		}
		opts = append(opts, signals.WithOffsetRatio(alignRatio))
	case cfg.Chart.OffsetRatio != nil:
		opts = append(opts, signals.WithOffsetRatio(*cfg.Chart.OffsetRatio))
	}

	view, err := svc.View(cmd.Context(), ticker, tf, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d candles, %d plotted signals", view.Name, len(view.Candles), len(view.Signals))
	if view.Fallback {
		fmt.Fprint(out, " (mock fallback)")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-20s %-5s %14s\n", "candle", "side", "marker")
	for _, p := range view.Signals {
		fmt.Fprintf(out, "%-20s %-5s %14.4f\n",
			time.Unix(p.CandleTime, 0).UTC().Format("2006-01-02 15:04"), p.Direction, p.DisplayValue)
	}
	return nil
}
