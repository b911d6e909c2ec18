package port

import (
	"context"
	"listing-service/internal/core/domain"
)

// GeocoderPort - внешний сервис геокодирования (поиск по свободному тексту, лучший результат).
type GeocoderPort interface {
	// Search возвращает domain.ErrNoGeocodeMatch, если ничего не найдено.
	Search(ctx context.Context, query string) (*domain.Coordinates, error)
}
