package usecase

import (
	"context"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"strconv"
)

// MigrateLegacyOwnersUseCase переписывает владельцев, сохраненных старым числовым id,
// на стабильный document id пользователя.
type MigrateLegacyOwnersUseCase struct {
	storage   port.PropertyStoragePort
	directory port.OwnerDirectoryPort
}

func NewMigrateLegacyOwnersUseCase(storage port.PropertyStoragePort, directory port.OwnerDirectoryPort) *MigrateLegacyOwnersUseCase {
	return &MigrateLegacyOwnersUseCase{storage: storage, directory: directory}
}

func (uc *MigrateLegacyOwnersUseCase) Execute(ctx context.Context, batchSize int) (*domain.OwnerMigrationStats, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "MigrateLegacyOwners",
		"batch_size": batchSize,
	})
	ucLogger.Info("Use case started", nil)

	stats := &domain.OwnerMigrationStats{}
	after := ""
	for {
		batch, err := uc.storage.FindLegacyOwners(ctx, batchSize, after)
		if err != nil {
			ucLogger.Error("Failed to fetch legacy owners batch", err, port.Fields{"after": after})
			return stats, upstreamError(err)
		}
		if len(batch) == 0 {
			break
		}

		for _, rec := range batch {
			stats.Scanned++
			after = rec.DocumentID

			legacyID, err := strconv.ParseInt(rec.OwnerID, 10, 64)
			if err != nil {
				stats.Unresolved++
				continue
			}
			ownerID, err := uc.directory.ResolveLegacyOwner(ctx, legacyID)
			if err != nil {
				ucLogger.Error("Owner directory returned an error", err, port.Fields{"legacy_id": legacyID})
				return stats, upstreamError(err)
			}
			if ownerID == "" {
				ucLogger.Warn("Legacy owner has no document id, leaving as is", port.Fields{
					"document_id": rec.DocumentID,
					"legacy_id":   legacyID,
				})
				stats.Unresolved++
				continue
			}

			if err := uc.storage.ReassignOwner(ctx, rec.DocumentID, rec.OwnerID, ownerID); err != nil {
				ucLogger.Error("Failed to reassign owner", err, port.Fields{"document_id": rec.DocumentID})
				return stats, upstreamError(err)
			}
			stats.Migrated++
		}

		if len(batch) < batchSize {
			break
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"scanned":    stats.Scanned,
		"migrated":   stats.Migrated,
		"unresolved": stats.Unresolved,
	})
	return stats, nil
}
