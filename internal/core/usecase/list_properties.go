package usecase

import (
	"context"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListPropertiesUseCase struct {
	storage port.PropertyStoragePort
}

func NewListPropertiesUseCase(storage port.PropertyStoragePort) *ListPropertiesUseCase {
	return &ListPropertiesUseCase{storage: storage}
}

func (uc *ListPropertiesUseCase) Execute(ctx context.Context, caller *domain.Caller, query domain.ListQuery) (*domain.PaginatedResult, error) {
	filters, scope := resolveListScope(caller, query)

	limit := query.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "ListProperties",
		"mine_only": query.MineOnly && caller.IsAuthenticated(),
		"scope":     scope,
		"limit":     limit,
		"offset":    offset,
	})
	ucLogger.Info("Use case started", nil)

	result, err := uc.storage.FindMany(ctx, filters, scope, limit, offset)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, upstreamError(err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Properties),
	})
	return result, nil
}
