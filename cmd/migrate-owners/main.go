package main

import (
	"context"
	"flag"
	"listing-service/internal"
	postgres_adapter "listing-service/internal/adapters/postgres"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
	"listing-service/internal/core/usecase"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// migrate-owners переписывает владельцев, записанных старым числовым id,
// на стабильный идентификатор пользователя.
func main() {
	batchSize := flag.Int("batch", 500, "records per page")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := internal.NewInfrastructure(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize infrastructure: %v", err)
	}

	logger := infra.BaseLogger.WithFields(port.Fields{"component": "migrate-owners"})
	ctx = contextkeys.ContextWithLogger(ctx, logger)

	code := run(ctx, infra, *batchSize, logger)
	infra.Close()
	os.Exit(code)
}

func run(ctx context.Context, infra *internal.Infrastructure, batchSize int, logger port.LoggerPort) int {
	storage, err := postgres_adapter.NewPostgresStorageAdapter(infra.DBPool)
	if err != nil {
		logger.Error("Failed to create storage adapter", err, nil)
		return 1
	}
	directory, err := postgres_adapter.NewOwnerDirectoryAdapter(infra.DBPool)
	if err != nil {
		logger.Error("Failed to create owner directory", err, nil)
		return 1
	}

	stats, err := usecase.NewMigrateLegacyOwnersUseCase(storage, directory).Execute(ctx, batchSize)
	if err != nil {
		logger.Error("Owner migration failed", err, nil)
		return 1
	}

	logger.Info("Owner migration finished", port.Fields{
		"scanned":    stats.Scanned,
		"migrated":   stats.Migrated,
		"unresolved": stats.Unresolved,
	})
	return 0
}
