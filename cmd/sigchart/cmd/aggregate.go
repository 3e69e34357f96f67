package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rustyeddy/sigchart/data"
	"github.com/rustyeddy/sigchart/market"
	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate base candles into a coarser timeframe",
	Long: `Aggregate folds the 15 minute base candles into 1h, 4h, 12h or 1d candles
using fixed-count buckets (4, 16, 48, 96 base candles).

Without --output a summary is printed. The export format follows --format, or
the output file extension when --format is empty.

Examples:
  sigchart aggregate -t 4h
  sigchart aggregate -i data/btc_15m.csv -t 1d -o btc_1d.parquet`,
	RunE: runAggregate,
}

var (
	aggInput     string
	aggTimeframe string
	aggOutput    string
	aggFormat    string
	aggLimit     int
)

func init() {
	rootCmd.AddCommand(aggregateCmd)

	aggregateCmd.Flags().StringVarP(&aggInput, "input", "i", "", "candle CSV (defaults to data.candles_path)")
	aggregateCmd.Flags().StringVarP(&aggTimeframe, "timeframe", "t", "1h", "target timeframe (15m, 1h, 4h, 12h, 1d)")
	aggregateCmd.Flags().StringVarP(&aggOutput, "output", "o", "", "export path")
	aggregateCmd.Flags().StringVarP(&aggFormat, "format", "f", "", "export format (csv, json, parquet)")
	aggregateCmd.Flags().IntVarP(&aggLimit, "limit", "n", 10, "candles to print when not exporting (0 = all)")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	tf, err := market.ParseTimeframe(aggTimeframe)
	if err != nil {
		return err
	}

	input := aggInput
	if input == "" {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		input = cfg.Data.CandlesPath
	}

	base, err := data.LoadCandles(input)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}
	candles, err := market.AggregateTimeframe(base, tf)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	if aggOutput == "" {
		printCandles(cmd, candles, tf, len(base))
		return nil
	}

	format := aggFormat
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(aggOutput), ".")
	}
	saver, err := data.NewSaver(format)
	if err != nil {
		return err
	}
	if err := saver.Save(data.Bars(candles), aggOutput); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d %s candles (%s) to %s\n", len(candles), tf, saver.Extension(), aggOutput)
	return nil
}

func printCandles(cmd *cobra.Command, candles []market.Candle, tf market.Timeframe, baseCount int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d base candles → %d %s candles\n\n", baseCount, len(candles), tf)
	fmt.Fprintf(out, "%-20s %12s %12s %12s %12s %14s\n", "time", "open", "high", "low", "close", "volume")

	shown := candles
	if aggLimit > 0 && len(shown) > aggLimit {
		shown = shown[:aggLimit]
	}
	for _, c := range shown {
		fmt.Fprintf(out, "%-20s %12.2f %12.2f %12.2f %12.2f %14.2f\n",
			c.Timestamp().Format("2006-01-02 15:04"), c.Open, c.High, c.Low, c.Close, c.Volume)
	}
	if len(shown) < len(candles) {
		fmt.Fprintf(out, "... %d more\n", len(candles)-len(shown))
	}
}
