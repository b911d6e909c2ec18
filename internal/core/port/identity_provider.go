package port

import (
	"context"
	"listing-service/internal/core/domain"
)

// IdentityProviderPort проверяет токен и возвращает пользователя.
type IdentityProviderPort interface {
	ValidateToken(ctx context.Context, tokenString string) (*domain.Caller, error)
}
