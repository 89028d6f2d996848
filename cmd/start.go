package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"price-tracker/core/config"
	"price-tracker/core/connector"
	"price-tracker/core/database"
	"price-tracker/core/ledger"
	"price-tracker/core/loader"
	"price-tracker/core/logger"
	"price-tracker/core/middleware/auth"
	"price-tracker/core/middleware/rayid"
	"price-tracker/core/orchestrator"
	"price-tracker/core/reconcile"
	"price-tracker/core/storage"

	"price-tracker/feature/history"
	"price-tracker/feature/prices"
	"price-tracker/feature/tracker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "price-tracker/docs/swagger"
)

// @title Price Tracker API
// @version 1.0
// @description API for tracked retail product prices and their history.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the price tracker server",
	Long:  `Starts the HTTP server and the background tracking scheduler.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Required)
		// The version ledger is the source of truth; without it there is
		// nothing to serve or to reconcile against.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := ledger.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate ledger schema", zap.Error(err))
		}
		store := ledger.NewGormStore(db)

		// 4. Initialize Storage
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 5. Register Connectors
		// Each connector is wrapped in a circuit breaker so a flapping
		// source cannot hammer the remote endpoint every cycle.
		registry := connector.NewRegistry()
		registry.Register(connector.WithBreaker(connector.NewKRuoka(connector.KRuokaOptions{})))
		registry.Register(connector.WithBreaker(connector.NewSGroup(connector.SGroupOptions{})))

		// 6. Build the Reconciliation Engine
		engine := reconcile.NewEngine(store, logg, reconcile.Options{
			AllowEmpty: cfg.Tracker.AllowEmptyList(),
		})

		// 7. Optional Raw Payload Archiving
		var archiver *orchestrator.Archiver
		if cfg.Tracker.ArchivePayloads {
			archiver, err = orchestrator.NewArchiver(context.Background(), client, cfg.Tracker.ArchiveBucket)
			if err != nil {
				logg.Fatal("Failed to initialize payload archiver", zap.Error(err))
			}
			logg.Info("Raw payload archiving enabled", zap.String("bucket", cfg.Tracker.ArchiveBucket))
		}

		orch := orchestrator.New(registry, engine, store, archiver, logg, cfg.Tracker)

		// 8. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 9. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(prices.NewFeature(store, cfg.Tracker.SourceList(), logg))
		mgr.Register(history.NewFeature(store, logg))
		mgr.Register(tracker.NewFeature(orch, db, client, cfg.Tracker.ArchiveBucket, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 10. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 11. Start Scheduler
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go orch.Run(ctx)

		// 12. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 13. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
