package usecases_port

import (
	"context"
	"listing-service/internal/core/domain"
)

type UpdatePropertyUseCasePort interface {
	Execute(ctx context.Context, caller *domain.Caller, documentID string, payload domain.PropertyPayload) (*domain.Property, error)
}
