package usecases_port

import (
	"context"
	"listing-service/internal/core/domain"
)

type MigrateLegacyOwnersUseCasePort interface {
	Execute(ctx context.Context, batchSize int) (*domain.OwnerMigrationStats, error)
}
