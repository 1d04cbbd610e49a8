// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"syscall"

	"voluntr_backend/internal/config"
	"voluntr_backend/internal/platform/database"
	"voluntr_backend/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrateCmd.Usage = func() {
		fmt.Fprintln(migrateCmd.Output(), "usage: server migrate up|down")
	}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		_ = migrateCmd.Parse(os.Args[2:])
		if migrateCmd.NArg() != 1 {
			migrateCmd.Usage()
			os.Exit(2)
		}
		if err := runMigrations(migrateCmd.Arg(0)); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		return
	}

	// Default: Start server
	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runMigrations applies or rolls back the embedded schema migrations.
func runMigrations(direction string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration for migrations: %w", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger for migrations: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	migrator, err := database.NewMigrator(cfg.DBSource, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			appLogger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	switch direction {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	default:
		return fmt.Errorf("unknown migrate direction %q, want up or down", direction)
	}
	if err != nil {
		return err
	}
	appLogger.Info("Migrations finished.", zap.String("direction", direction))
	return nil
}
