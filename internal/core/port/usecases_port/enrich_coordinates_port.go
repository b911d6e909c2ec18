package usecases_port

import (
	"context"
	"listing-service/internal/core/domain"
)

// EnrichCoordinatesUseCasePort дополняет payload координатами.
// current - сохраненная запись при update, nil при create.
type EnrichCoordinatesUseCasePort interface {
	Execute(ctx context.Context, payload *domain.PropertyPayload, current *domain.Property)
}
