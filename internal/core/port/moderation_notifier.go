package port

import (
	"context"
	"listing-service/internal/core/domain"
)

// ModerationNotifierPort сообщает внешней модерации о новых/измененных объявлениях.
type ModerationNotifierPort interface {
	NotifySubmitted(ctx context.Context, event domain.ListingSubmitted) error
}
