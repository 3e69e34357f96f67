package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rustyeddy/sigchart/config"
	"github.com/rustyeddy/sigchart/internal/slogx"
	"github.com/rustyeddy/sigchart/signals"
	"github.com/rustyeddy/sigchart/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sigchart",
	Short: "Candlestick chart data with aligned trading signals",
	Long: `Sigchart prepares the data behind two financial charts: an indicator
chart (histogram + line) and an OHLC candlestick chart overlaid with buy/sell
signal markers.

It provides tools for:
  - Aggregating 15 minute candles into 1h, 4h, 12h and 1d candles
  - Aligning trading signals with their nearest candle
  - Storing signals in SQLite
  - Serving chart data as JSON over HTTP`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	envFile  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON, default settings when empty)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with SIGCHART_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig reads the config file (or defaults) and applies env overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(cfgFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slogx.NewDefault(cfg.Log.Level)
}

// openSource builds the configured signal source. A nil source means mock
// signals, which the chart service derives from its own candles.
func openSource(cfg *config.Config) (signals.Source, io.Closer, error) {
	switch cfg.Signals.Source {
	case "mock":
		return nil, nil, nil
	case "http":
		timeout, err := cfg.Signals.ParseTimeout()
		if err != nil {
			return nil, nil, err
		}
		return signals.NewHTTPSource(cfg.Signals.URL, timeout), nil, nil
	case "sqlite":
		st, err := store.NewSQLite(cfg.Signals.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open signal store: %w", err)
		}
		return st, st, nil
	default:
		return nil, nil, fmt.Errorf("unknown signal source %q", cfg.Signals.Source)
	}
}
