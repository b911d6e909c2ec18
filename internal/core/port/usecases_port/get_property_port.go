package usecases_port

import (
	"context"
	"listing-service/internal/core/domain"
)

type GetPropertyUseCasePort interface {
	Execute(ctx context.Context, caller *domain.Caller, documentID string) (*domain.Property, error)
}
