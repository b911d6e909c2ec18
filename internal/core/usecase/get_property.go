package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type GetPropertyUseCase struct {
	storage port.PropertyStoragePort
}

func NewGetPropertyUseCase(storage port.PropertyStoragePort) *GetPropertyUseCase {
	return &GetPropertyUseCase{storage: storage}
}

func (uc *GetPropertyUseCase) Execute(ctx context.Context, caller *domain.Caller, documentID string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetProperty",
		"document_id": documentID,
	})
	ucLogger.Info("Use case started", nil)

	property, err := uc.storage.FindOne(ctx, documentID)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, upstreamError(err)
	}
	if property == nil {
		ucLogger.Info("Property not found", nil)
		return nil, domain.ErrNotFound
	}

	if !canView(caller, property) {
		ucLogger.Warn("Access to unpublished property denied", port.Fields{"status": property.Status})
		return nil, fmt.Errorf("%w: this listing is not published", domain.ErrUnauthorized)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return property, nil
}
