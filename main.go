package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/tablemate/config"
	"github.com/yeremiapane/tablemate/database"
	"github.com/yeremiapane/tablemate/live"
	"github.com/yeremiapane/tablemate/router"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tablemate",
		Short:        "Restaurant reservations: API server and command-line client",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env di awal sebelum apapun
			config.LoadEnv()
		},
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	addClientCommands(root)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			utils.InitLogger(cfg.LogLevel)
			return runServer(cmd.Context(), cfg)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and seed the first administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			utils.InitLogger(cfg.LogLevel)

			db, err := database.Open(cfg.Database)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			return database.SeedAdmin(db, cfg.Admin)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to connect to database: %v", err)
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		return err
	}

	hub := live.NewHub()
	defer hub.Close()

	blacklist := utils.NewTokenBlacklist()
	go blacklist.Cleanup(ctx, 10*time.Minute)

	monitor := services.NewReminderMonitor(db, services.NewNotificationService(db, hub), hub, cfg.Reminder.Interval, cfg.Reminder.Lead)
	monitor.Location = cfg.Booking.Location()
	monitor.Start()
	defer monitor.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(db, router.Options{Config: cfg, Hub: hub, Blacklist: blacklist, Context: ctx}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	utils.InfoLogger.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
