package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

// UpdatePolicy - что происходит со статусом, когда владелец редактирует объявление.
type UpdatePolicy struct {
	// ResubmitOnEdit - любое редактирование отправляет объявление обратно на модерацию.
	ResubmitOnEdit bool
}

type UpdatePropertyUseCase struct {
	storage  port.PropertyStoragePort
	enricher usecases_port.EnrichCoordinatesUseCasePort
	notifier port.ModerationNotifierPort
	policy   UpdatePolicy
}

func NewUpdatePropertyUseCase(
	storage port.PropertyStoragePort,
	enricher usecases_port.EnrichCoordinatesUseCasePort,
	notifier port.ModerationNotifierPort,
	policy UpdatePolicy,
) *UpdatePropertyUseCase {
	return &UpdatePropertyUseCase{
		storage:  storage,
		enricher: enricher,
		notifier: notifier,
		policy:   policy,
	}
}

func (uc *UpdatePropertyUseCase) Execute(ctx context.Context, caller *domain.Caller, documentID string, payload domain.PropertyPayload) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "UpdateProperty",
		"document_id": documentID,
	})
	ucLogger.Info("Use case started", nil)

	current, err := uc.storage.FindOne(ctx, documentID)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, upstreamError(err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	if !caller.Owns(current) {
		ucLogger.Warn("Update by non-owner rejected", nil)
		return nil, fmt.Errorf("%w: you may only edit your own listings", domain.ErrUnauthorized)
	}

	payload.StripOwner()
	uc.applyStatusPolicy(&payload)
	uc.enricher.Execute(ctx, &payload, current)

	updated, err := uc.storage.Update(ctx, documentID, payload)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, upstreamError(err)
	}
	if updated == nil {
		// Запись удалили между чтением и записью.
		return nil, domain.ErrNotFound
	}

	notifySubmitted(ctx, uc.notifier, updated)

	ucLogger.Info("Use case finished successfully", port.Fields{"status": updated.Status})
	return updated, nil
}

// applyStatusPolicy: опубликовать объявление сам владелец не может никогда.
func (uc *UpdatePropertyUseCase) applyStatusPolicy(payload *domain.PropertyPayload) {
	pending := domain.StatusPending
	if uc.policy.ResubmitOnEdit {
		payload.Status = &pending
		return
	}
	if payload.Status != nil && *payload.Status == domain.StatusPublished {
		payload.Status = &pending
	}
}
