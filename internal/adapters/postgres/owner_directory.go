package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OwnerDirectoryAdapter читает таблицу users сервиса аутентификации.
type OwnerDirectoryAdapter struct {
	pool *pgxpool.Pool
}

func NewOwnerDirectoryAdapter(pool *pgxpool.Pool) (*OwnerDirectoryAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool cannot be nil")
	}
	return &OwnerDirectoryAdapter{pool: pool}, nil
}

func (a *OwnerDirectoryAdapter) ResolveLegacyOwner(ctx context.Context, legacyID int64) (string, error) {
	var documentID string
	err := a.pool.QueryRow(ctx, "SELECT document_id FROM users WHERE id = $1", legacyID).Scan(&documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve legacy owner %d: %w", legacyID, err)
	}
	return documentID, nil
}
