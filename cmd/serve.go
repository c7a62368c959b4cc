package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scma-sync/core/config"
	"scma-sync/core/history"
	"scma-sync/core/logger"
	"scma-sync/core/model"
	"scma-sync/core/reconcile"
	"scma-sync/core/server"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd runs syncs on a schedule and serves the report API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled syncs and the report server",
	Long: `Runs a full sync on the configured cron schedule and serves the
report API (health check plus recorded runs) until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if syncInput != "" {
			cfg.Club.Snapshot = syncInput
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Open History Store
		store, err := history.Open(cfg.History)
		if err != nil {
			logg.Fatal("Failed to open history store", zap.Error(err))
		}

		// 4. Schedule Syncs
		scheduler := cron.New()
		_, err = scheduler.AddFunc(cfg.Sync.Schedule, func() {
			runScheduledSync(cfg, logg, store)
		})
		if err != nil {
			logg.Fatal("Invalid sync schedule",
				zap.String("schedule", cfg.Sync.Schedule),
				zap.Error(err),
			)
		}
		scheduler.Start()
		logg.Info("Scheduled sync", zap.String("schedule", cfg.Sync.Schedule))

		// 5. Start Report Server
		app := server.New(logg, store, cfg.Server)
		go func() {
			logg.Info("Starting report server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Report server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		<-scheduler.Stop().Done()
		_ = app.Shutdown()
	},
}

// runScheduledSync performs one full sync pass and records it. Failures
// are logged and recorded; the scheduler keeps running.
func runScheduledSync(cfg *config.Config, logg *zap.Logger, store *history.Store) {
	ctx := context.Background()

	source, err := newSource(cfg)
	if err != nil {
		logg.Error("Scheduled sync has no source", zap.Error(err))
		return
	}
	aliases, err := model.LoadAliases(cfg.Sync.AliasFile)
	if err != nil {
		logg.Error("Scheduled sync alias load failed", zap.Error(err))
		return
	}

	run := history.NewRun("all", false)
	rt := &runtime{
		cfg:     cfg,
		log:     logger.WithRun(logg, run.ID),
		store:   store,
		source:  source,
		aliases: aliases,
		notify:  cfg.Sync.Notify,
	}
	rt.log.Info("Starting scheduled sync")

	result, syncErr := rt.syncAll(ctx)

	run.Inserts = result.Inserts
	run.Updates = result.Updates
	run.Deletes = result.Deletes
	run.Failed = result.Failed()
	if syncErr != nil {
		run.Error = syncErr.Error()
		rt.log.Error("Scheduled sync had failures", zap.Error(syncErr))
	}
	if err := store.Record(ctx, run); err != nil {
		rt.log.Warn("Failed to record run", zap.Error(err))
	}
	logSummary(rt.log, "all", result)
}

func init() {
	serveCmd.Flags().StringVar(&syncInput, "input", "", "Read from a YAML snapshot instead of the club site")
	RootCmd.AddCommand(serveCmd)
}

// logSummary reports one sync pass the same way for CLI and scheduled runs.
func logSummary(l *zap.Logger, kind string, result reconcile.Result) {
	l.Info("Sync finished",
		zap.String("kind", kind),
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("inserts", result.Inserts),
		zap.Int("updates", result.Updates),
		zap.Int("deletes", result.Deletes),
		zap.Int("failed", result.Failed()),
	)
}
