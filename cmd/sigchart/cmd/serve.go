package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/sigchart/api"
	"github.com/rustyeddy/sigchart/chart"
	"github.com/rustyeddy/sigchart/data"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve chart data over HTTP",
	Long: `Serve loads the base candles and indicator rows, then serves:

  GET  /health
  GET  /api/timeframes
  GET  /api/indicator
  GET  /api/candles?timeframe=1h
  GET  /api/chart?ticker=BTC&timeframe=4h[&offset_ratio=0.05]
  POST /api/signals  {"ticker":"BTC","timeframe":"1h"}

Example:
  sigchart serve -c sigchart.yaml --addr :8080`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logger := newLogger(cfg)

	candles, err := data.LoadCandles(cfg.Data.CandlesPath)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}

	var indicator []data.IndicatorPoint
	if cfg.Data.IndicatorPath != "" {
		indicator, err = data.LoadIndicator(cfg.Data.IndicatorPath)
		if err != nil {
			logger.Warn("indicator data unavailable",
				slog.String("path", cfg.Data.IndicatorPath),
				slog.String("error", err.Error()))
		}
	}

	src, closer, err := openSource(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	svc, err := chart.NewService(candles, indicator, src, logger)
	if err != nil {
		return err
	}
	svc.LogInfo()

	tf, _ := cfg.Chart.ParseTimeframe()
	h := api.NewHandler(svc, api.Options{
		DefaultTicker:    cfg.Chart.Ticker,
		DefaultTimeframe: tf,
		OffsetRatio:      cfg.Chart.OffsetRatio,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
	}, logger)
	srv := h.Server(cfg.Server.Addr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			slog.String("addr", cfg.Server.Addr),
			slog.String("signals", cfg.Signals.Source))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
