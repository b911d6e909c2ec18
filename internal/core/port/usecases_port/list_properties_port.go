package usecases_port

import (
	"context"
	"listing-service/internal/core/domain"
)

type ListPropertiesUseCasePort interface {
	Execute(ctx context.Context, caller *domain.Caller, query domain.ListQuery) (*domain.PaginatedResult, error)
}
