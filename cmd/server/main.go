package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"daily-reconciliation/internal/config"
	"daily-reconciliation/internal/database"
	"daily-reconciliation/internal/handlers"
	"daily-reconciliation/internal/logging"
	"daily-reconciliation/internal/matching"
	"daily-reconciliation/internal/metrics"
	"daily-reconciliation/internal/report"
	"daily-reconciliation/internal/repositories"
	"daily-reconciliation/internal/services"
)

func main() {
	migrateCmd := flag.String("migrate", "", "Migration command (up/down/version)")
	steps := flag.Int("steps", 0, "Number of migration steps (0 means all)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, cfg, logger)
	if err != nil {
		logger.Error("error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *migrateCmd != "" {
		if err := handleMigration(cfg, *migrateCmd, *steps, logger); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		return
	}

	chargeRepo := repositories.NewChargeRepository(db)
	dealRepo := repositories.NewDealRepository(db)
	paymentRepo := repositories.NewInvoicePaymentRepository(db)
	reconciliationRepo := repositories.NewReconciliationRepository(db)

	engineOpts := cfg.EngineOptions()
	engineOpts.Logger = logger
	engine := matching.NewMatchEngine(engineOpts)
	m := metrics.New()

	ingestionService := services.NewIngestionService(db, chargeRepo, dealRepo, paymentRepo, reconciliationRepo, logger)
	reconciliationService := services.NewReconciliationService(db, engine, chargeRepo, dealRepo, paymentRepo, reconciliationRepo,
		report.NewFileWriter(cfg.Report.Dir, logger), m, logger)

	router := handlers.SetupRouter(ingestionService, reconciliationService, m.Handler(), logger)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server is running", "address", cfg.ServerAddress, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return
	}
	logger.Info("server exited gracefully")
}

func handleMigration(cfg *config.Config, command string, steps int, logger *slog.Logger) error {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", cfg.Migration.Dir),
		cfg.GetMigrationDBURL(),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer m.Close()

	switch command {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verErr := m.Version()
		if errors.Is(verErr, migrate.ErrNilVersion) {
			logger.Info("no migrations have been applied yet")
			return nil
		}
		if verErr != nil {
			return fmt.Errorf("failed to get version: %w", verErr)
		}
		fmt.Printf("Current migration version: %d (dirty: %v)\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("invalid migration command: %s", command)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes to apply")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("migration completed successfully", "command", command)
	return nil
}
