package usecases_port

import (
	"context"
	"listing-service/internal/core/domain"
)

type CreatePropertyUseCasePort interface {
	Execute(ctx context.Context, caller *domain.Caller, payload domain.PropertyPayload) (*domain.Property, error)
}
