package postgres

import (
	"context"
	"errors"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Коды ошибок PostgreSQL, которые превращаются в понятные клиенту ошибки.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// classifyPgError переводит нарушение ограничения таблицы в доменную ошибку.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgCheckViolation:
		return fmt.Errorf("%w: constraint %s violated", domain.ErrInvalidPayload, pgErr.ConstraintName)
	case pgUniqueViolation:
		return fmt.Errorf("listing already exists (%s): %w", pgErr.ConstraintName, err)
	}
	return err
}

const propertyColumns = `p.id, p.document_id, p.title, p.description, p.price, p.bedrooms, p.bathrooms, p.size,
	p.purpose, p.type, p.street, p.neighborhood_region, p.neighborhood, p.city,
	p.latitude, p.longitude, p.geohash, p.status, p.owner_id,
	p.created_at, p.updated_at, p.published_at`

type PostgresStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewPostgresStorageAdapter(pool *pgxpool.Pool) (*PostgresStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool cannot be nil")
	}
	return &PostgresStorageAdapter{pool: pool}, nil
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property
	var region, name, status string
	err := row.Scan(
		&p.ID, &p.DocumentID, &p.Title, &p.Description, &p.Price, &p.Bedrooms, &p.Bathrooms, &p.Size,
		&p.Purpose, &p.Type, &p.Street, &region, &name, &p.City,
		&p.Latitude, &p.Longitude, &p.Geohash, &status, &p.OwnerID,
		&p.CreatedAt, &p.UpdatedAt, &p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Neighborhood = domain.Neighborhood{Region: region, Name: name}
	p.Status = domain.Status(status)
	return &p, nil
}

// FindOne не фильтрует по статусу: решение о видимости принимает use case.
func (a *PostgresStorageAdapter) FindOne(ctx context.Context, documentID string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresStorageAdapter",
		"method":      "FindOne",
		"document_id": documentID,
	})

	query := fmt.Sprintf("SELECT %s FROM properties p WHERE p.document_id = $1", propertyColumns)
	property, err := scanProperty(a.pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Property not found", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to query property", err, nil)
		return nil, fmt.Errorf("failed to query property %s: %w", documentID, err)
	}
	return property, nil
}

// FindMany ищет объекты по фильтрам с пагинацией
func (a *PostgresStorageAdapter) FindMany(ctx context.Context, filters domain.PropertyFilters, scope domain.StatusScope, limit, offset int) (*domain.PaginatedResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "FindMany",
		"scope":     scope,
		"limit":     limit,
		"offset":    offset,
	})

	whereClause, args := applyFilters(filters, scope)

	// COUNT и страница читаются в одной транзакции, чтобы итог совпадал со страницей.
	tx, err := a.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM properties p %s", whereClause)
	var totalCount int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count properties", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	result := &domain.PaginatedResult{
		Properties:   []domain.Property{},
		TotalCount:   totalCount,
		CurrentPage:  offset/limit + 1,
		ItemsPerPage: limit,
	}
	if totalCount == 0 {
		return result, nil
	}

	dataQuery := fmt.Sprintf(
		"SELECT %s FROM properties p %s ORDER BY p.updated_at DESC, p.id DESC LIMIT $%d OFFSET $%d",
		propertyColumns, whereClause, len(args)+1, len(args)+2,
	)
	rows, err := tx.Query(ctx, dataQuery, append(args, limit, offset)...)
	if err != nil {
		repoLogger.Error("Failed to query properties", err, port.Fields{"query": dataQuery})
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		result.Properties = append(result.Properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Properties page loaded", port.Fields{"total_count": totalCount, "count": len(result.Properties)})
	return result, nil
}

func (a *PostgresStorageAdapter) Create(ctx context.Context, property domain.Property) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresStorageAdapter",
		"method":      "Create",
		"document_id": property.DocumentID,
	})

	query := fmt.Sprintf(`
		INSERT INTO properties AS p (
			document_id, title, description, price, bedrooms, bathrooms, size,
			purpose, type, street, neighborhood_region, neighborhood, city,
			latitude, longitude, geohash, status, owner_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING %s`, propertyColumns)

	created, err := scanProperty(a.pool.QueryRow(ctx, query,
		property.DocumentID, property.Title, property.Description, property.Price, property.Bedrooms, property.Bathrooms, property.Size,
		property.Purpose, property.Type, property.Street, property.Neighborhood.Region, property.Neighborhood.Name, property.City,
		property.Latitude, property.Longitude, property.Geohash, string(property.Status), property.OwnerID,
		property.CreatedAt, property.UpdatedAt,
	))
	if err != nil {
		repoLogger.Error("Failed to insert property", err, nil)
		return nil, fmt.Errorf("failed to insert property: %w", classifyPgError(err))
	}

	repoLogger.Info("Property created", port.Fields{"id": created.ID})
	return created, nil
}

// Update возвращает (nil, nil), если записи уже нет.
func (a *PostgresStorageAdapter) Update(ctx context.Context, documentID string, payload domain.PropertyPayload) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresStorageAdapter",
		"method":      "Update",
		"document_id": documentID,
	})

	setClause, args, next := applyPayload(payload).build()
	query := fmt.Sprintf(
		"UPDATE properties AS p SET %s WHERE p.document_id = $%d RETURNING %s",
		setClause, next, propertyColumns,
	)

	updated, err := scanProperty(a.pool.QueryRow(ctx, query, append(args, documentID)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		repoLogger.Error("Failed to update property", err, nil)
		return nil, fmt.Errorf("failed to update property %s: %w", documentID, classifyPgError(err))
	}

	repoLogger.Info("Property updated", port.Fields{"fields_set": len(args)})
	return updated, nil
}

// FindLegacyOwners возвращает объявления с числовым владельцем, по порядку document_id.
func (a *PostgresStorageAdapter) FindLegacyOwners(ctx context.Context, limit int, afterDocumentID string) ([]domain.LegacyOwnerRecord, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT document_id, owner_id
		FROM properties
		WHERE owner_id ~ '^[0-9]+$' AND document_id > $1
		ORDER BY document_id
		LIMIT $2`, afterDocumentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy owners: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LegacyOwnerRecord, error) {
		var rec domain.LegacyOwnerRecord
		err := row.Scan(&rec.DocumentID, &rec.OwnerID)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan legacy owners: %w", err)
	}
	return records, nil
}

// ReassignOwner меняет владельца, только если он все еще равен fromOwnerID.
func (a *PostgresStorageAdapter) ReassignOwner(ctx context.Context, documentID, fromOwnerID, toOwnerID string) error {
	logger := contextkeys.LoggerFromContext(ctx)

	tag, err := a.pool.Exec(ctx, `
		UPDATE properties SET owner_id = $3, updated_at = now()
		WHERE document_id = $1 AND owner_id = $2`, documentID, fromOwnerID, toOwnerID)
	if err != nil {
		return fmt.Errorf("failed to reassign owner of %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("owner of %s changed concurrently or record is gone", documentID)
	}

	logger.Debug("Owner reassigned", port.Fields{
		"component":   "PostgresStorageAdapter",
		"document_id": documentID,
		"from":        fromOwnerID,
		"to":          toOwnerID,
	})
	return nil
}
