package port

import (
	"context"
	"listing-service/internal/core/domain"
)

// PropertyStoragePort - контракт хранилища объявлений.
// FindOne возвращает (nil, nil), если записи нет, и не фильтрует по статусу.
type PropertyStoragePort interface {
	FindOne(ctx context.Context, documentID string) (*domain.Property, error)
	FindMany(ctx context.Context, filters domain.PropertyFilters, scope domain.StatusScope, limit, offset int) (*domain.PaginatedResult, error)
	Create(ctx context.Context, property domain.Property) (*domain.Property, error)
	// Update применяет только переданные поля payload. Владелец не меняется никогда.
	Update(ctx context.Context, documentID string, payload domain.PropertyPayload) (*domain.Property, error)

	FindLegacyOwners(ctx context.Context, limit int, afterDocumentID string) ([]domain.LegacyOwnerRecord, error)
	// ReassignOwner - единственный способ сменить владельца, используется только миграцией.
	ReassignOwner(ctx context.Context, documentID, fromOwnerID, toOwnerID string) error
}
