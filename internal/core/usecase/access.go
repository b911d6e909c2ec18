package usecase

import (
	"context"
	"errors"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"time"
)

// resolveListScope вычисляет фильтр видимости для списка.
// Владелец и статус из запроса учитываются только для "своих" объявлений
// аутентифицированного пользователя, иначе - только опубликованные.
func resolveListScope(caller *domain.Caller, query domain.ListQuery) (domain.PropertyFilters, domain.StatusScope) {
	filters := query.Filters

	if !caller.IsAuthenticated() || !query.MineOnly {
		published := domain.StatusPublished
		filters.OwnerID = ""
		filters.Status = &published
		return filters, domain.ScopePublished
	}

	filters.OwnerID = caller.ID
	filters.Status = query.StatusOverride
	return filters, domain.ScopeAll
}

// canView - черновики и объявления на модерации видит только владелец.
func canView(caller *domain.Caller, property *domain.Property) bool {
	return property.IsPublished() || caller.Owns(property)
}

// upstreamError оборачивает ошибку хранилища. Отказ по ограничению таблицы остается ошибкой данных.
func upstreamError(err error) error {
	if errors.Is(err, domain.ErrInvalidPayload) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
}

// notifySubmitted отправляет событие модерации. Ошибка только логируется.
func notifySubmitted(ctx context.Context, notifier port.ModerationNotifierPort, property *domain.Property) {
	if notifier == nil || property.Status != domain.StatusPending {
		return
	}
	logger := contextkeys.LoggerFromContext(ctx)

	event := domain.ListingSubmitted{
		DocumentID:  property.DocumentID,
		OwnerID:     property.OwnerID,
		Status:      property.Status,
		SubmittedAt: time.Now().UTC(),
	}
	if err := notifier.NotifySubmitted(ctx, event); err != nil {
		logger.Warn("Failed to notify moderation, listing saved anyway", port.Fields{
			"document_id": property.DocumentID,
			"error":       err.Error(),
		})
	}
}
