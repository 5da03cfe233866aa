// Command migrate rewrites legacy attachment lists of every spis into the
// current item schema.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"spisovka/internal/config"
	"spisovka/internal/repository/postgres"
	"spisovka/internal/service"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Report records that need migration without writing them")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	migrator := service.NewMigrationService(
		postgres.NewSpisRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		logger,
	)

	report, err := migrator.MigrateAll(ctx, *dryRun)
	if err != nil {
		if report != nil {
			log.Fatalf("Migration interrupted after %d record(s): %v", report.Scanned, err)
		}
		log.Fatalf("Migration failed: %v", err)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}
