package port

import "context"

// OwnerDirectoryPort сопоставляет старый числовой id пользователя с его document id.
type OwnerDirectoryPort interface {
	// ResolveLegacyOwner возвращает пустую строку, если пользователь не найден.
	ResolveLegacyOwner(ctx context.Context, legacyID int64) (string, error)
}
