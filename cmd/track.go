package cmd

import (
	"context"
	"fmt"

	"price-tracker/core/config"
	"price-tracker/core/connector"
	"price-tracker/core/database"
	"price-tracker/core/ledger"
	"price-tracker/core/logger"
	"price-tracker/core/orchestrator"
	"price-tracker/core/reconcile"
	"price-tracker/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var trackSource string

// trackCmd runs a single fetch-and-reconcile cycle and exits.
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Run one tracking cycle against a data source",
	Long: `Fetch the current product snapshot from a source, reconcile it against
the version ledger, and print what changed.

Examples:
  # Track a single source
  track --source K-ruoka

  # Track every configured source
  track`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().StringVar(&trackSource, "source", "", "Data source to track (default: all configured sources)")
	RootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := ledger.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate ledger schema: %w", err)
	}
	store := ledger.NewGormStore(db)

	// Register connectors
	registry := connector.NewRegistry()
	registry.Register(connector.WithBreaker(connector.NewKRuoka(connector.KRuokaOptions{})))
	registry.Register(connector.WithBreaker(connector.NewSGroup(connector.SGroupOptions{})))

	engine := reconcile.NewEngine(store, l, reconcile.Options{
		AllowEmpty: cfg.Tracker.AllowEmptyList(),
	})

	// Optional raw payload archiving
	var archiver *orchestrator.Archiver
	if cfg.Tracker.ArchivePayloads {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		archiver, err = orchestrator.NewArchiver(ctx, client, cfg.Tracker.ArchiveBucket)
		if err != nil {
			return fmt.Errorf("failed to initialize payload archiver: %w", err)
		}
	}

	orch := orchestrator.New(registry, engine, store, archiver, l, cfg.Tracker)

	sources := cfg.Tracker.SourceList()
	if trackSource != "" {
		sources = []string{trackSource}
	}

	for _, source := range sources {
		result, err := orch.RunCycle(ctx, source)
		if err != nil {
			return fmt.Errorf("cycle failed for %s: %w", source, err)
		}
		l.Info("Cycle complete",
			zap.String("source", source),
			zap.Int("inserted", result.Inserted),
			zap.Int("updated", result.Updated),
			zap.Int("disappeared", result.Disappeared),
			zap.Int("unchanged", result.Unchanged),
		)
	}

	return nil
}
