package cmd

import (
	"context"
	"fmt"

	"price-tracker/core/compact"
	"price-tracker/core/config"
	"price-tracker/core/database"
	"price-tracker/core/ledger"
	"price-tracker/core/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	historySource string
	historyKey    string
)

// historyCmd prints the compacted price history of one product.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the compacted price history of a product",
	Long: `Read every ledger version of a product and print the run-length
compacted price intervals, newest last.

Example:
  history --source K-ruoka --key kahvipaketti-500g`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historySource, "source", "", "Data source the product belongs to")
	historyCmd.Flags().StringVar(&historyKey, "key", "", "Natural key of the product")
	_ = historyCmd.MarkFlagRequired("source")
	_ = historyCmd.MarkFlagRequired("key")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	store := ledger.NewGormStore(db)

	rows, err := store.HistoryRows(ctx, historySource, historyKey)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no ledger rows for %s/%s", historySource, historyKey)
	}

	intervals := compact.Compact(rows)
	l.Sugar().Infof("%d versions compacted into %d price intervals", len(rows), len(intervals))

	for _, iv := range intervals {
		printInterval(iv)
	}
	return nil
}

func printInterval(iv compact.PriceInterval) {
	until := "now"
	if iv.ValidTo != nil {
		until = iv.ValidTo.Format("2006-01-02 15:04")
	}
	fmt.Printf("%s .. %-16s  %8s €  (per unit %s, %d versions)  %s\n",
		iv.ValidFrom.Format("2006-01-02 15:04"),
		until,
		decimalOrDash(iv.EffectivePrice),
		decimalOrDash(iv.PricePerUnit),
		iv.Versions,
		stringOrDash(iv.NamePrimary),
	)
}

func decimalOrDash(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}

func stringOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
