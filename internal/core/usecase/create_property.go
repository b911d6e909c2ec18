package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreatePropertyUseCase struct {
	storage     port.PropertyStoragePort
	enricher    usecases_port.EnrichCoordinatesUseCasePort
	notifier    port.ModerationNotifierPort
	defaultCity string
}

func NewCreatePropertyUseCase(
	storage port.PropertyStoragePort,
	enricher usecases_port.EnrichCoordinatesUseCasePort,
	notifier port.ModerationNotifierPort,
	defaultCity string,
) *CreatePropertyUseCase {
	if defaultCity == "" {
		defaultCity = domain.DefaultCity
	}
	return &CreatePropertyUseCase{
		storage:     storage,
		enricher:    enricher,
		notifier:    notifier,
		defaultCity: defaultCity,
	}
}

func (uc *CreatePropertyUseCase) Execute(ctx context.Context, caller *domain.Caller, payload domain.PropertyPayload) (*domain.Property, error) {
	if !caller.IsAuthenticated() {
		return nil, fmt.Errorf("%w: sign in to create listings", domain.ErrAuthenticationRequired)
	}

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CreateProperty",
		"owner_id": caller.ID,
	})
	ucLogger.Info("Use case started", nil)

	// Владелец и статус всегда выставляются сервером, значения клиента игнорируются.
	owner := caller.ID
	pending := domain.StatusPending
	payload.OwnerID = &owner
	payload.Status = &pending

	if payload.City == nil || strings.TrimSpace(*payload.City) == "" {
		city := uc.defaultCity
		payload.City = &city
	}

	uc.enricher.Execute(ctx, &payload, nil)

	property := payload.ToProperty()
	property.DocumentID = uuid.NewString()
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now

	created, err := uc.storage.Create(ctx, property)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, upstreamError(err)
	}

	notifySubmitted(ctx, uc.notifier, created)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"document_id":     created.DocumentID,
		"has_coordinates": created.HasCoordinates(),
	})
	return created, nil
}
