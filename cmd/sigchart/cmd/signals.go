package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/sigchart/data"
	"github.com/rustyeddy/sigchart/store"
	"github.com/spf13/cobra"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Manage stored trading signals",
	Long: `Import and list trading signals in the SQLite signal store.

Subcommands:
  import - Load signals from a CSV file (timestamp,signal)
  list   - List stored signals for a ticker

Examples:
  sigchart signals import signals.csv --ticker BTC
  sigchart signals list --ticker BTC --from "2025-01-01 00:00:00"`,
}

var signalsImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import signals from CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignalsImport,
}

var signalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored signals",
	Args:  cobra.NoArgs,
	RunE:  runSignalsList,
}

var (
	signalsDBPath string
	signalsTicker string
	signalsFrom   string
	signalsTo     string
	signalsReset  bool
)

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.AddCommand(signalsImportCmd)
	signalsCmd.AddCommand(signalsListCmd)

	signalsCmd.PersistentFlags().StringVarP(&signalsDBPath, "db", "d", "", "path to SQLite signal DB (defaults to signals.db_path)")
	signalsCmd.PersistentFlags().StringVar(&signalsTicker, "ticker", "BTC", "asset ticker")

	signalsImportCmd.Flags().BoolVar(&signalsReset, "reset", false, "delete the ticker's stored signals first")
	signalsListCmd.Flags().StringVar(&signalsFrom, "from", "", "start time, inclusive (unix seconds or YYYY-MM-DD HH:MM:SS)")
	signalsListCmd.Flags().StringVar(&signalsTo, "to", "", "end time, exclusive")
}

func openStore() (*store.SQLite, error) {
	path := signalsDBPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		path = cfg.Signals.DBPath
	}
	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return st, nil
}

func runSignalsImport(cmd *cobra.Command, args []string) error {
	sigs, err := data.LoadSignals(args[0])
	if err != nil {
		return fmt.Errorf("load signals: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if signalsReset {
		n, err := st.DeleteSignals(ctx, signalsTicker)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stored %s signals\n", n, signalsTicker)
	}

	n, err := st.RecordSignals(ctx, signalsTicker, sigs)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d %s signals from %s\n", n, signalsTicker, args[0])
	return nil
}

func runSignalsList(cmd *cobra.Command, args []string) error {
	from, to := int64(0), int64(math.MaxInt64)
	var err error
	if signalsFrom != "" {
		if from, err = data.ParseTime(signalsFrom); err != nil {
			return fmt.Errorf("--from: %w", err)
		}
	}
	if signalsTo != "" {
		if to, err = data.ParseTime(signalsTo); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.ListSignals(cmd.Context(), signalsTicker, from, to)
	if err != nil {
		return fmt.Errorf("query signals: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-26s %-6s %-20s %-5s\n", "id", "ticker", "time", "side")
	for _, r := range recs {
		fmt.Fprintf(out, "%-26s %-6s %-20s %-5s\n",
			r.ID, r.Ticker, time.Unix(r.Signal.Timestamp, 0).UTC().Format("2006-01-02 15:04:05"), r.Signal.Direction)
	}
	fmt.Fprintf(out, "\n%d signals\n", len(recs))
	return nil
}
