package usecase

import (
	"context"
	"errors"
	"fmt"
	"listing-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	ownerID    = "9b2c6a4e-owner"
	strangerID = "1f0d3e7a-stranger"
)

func seedStorage() *fakeStorage {
	return newFakeStorage(
		domain.Property{DocumentID: "a-published", Title: "Casa", Status: domain.StatusPublished, OwnerID: ownerID},
		domain.Property{DocumentID: "b-pending", Title: "Apto", Status: domain.StatusPending, OwnerID: ownerID},
		domain.Property{DocumentID: "c-draft", Title: "Kitnet", Status: domain.StatusDraft, OwnerID: ownerID},
		domain.Property{DocumentID: "d-other", Title: "Sobrado", Status: domain.StatusPublished, OwnerID: strangerID},
	)
}

func noopEnricher() *EnrichCoordinatesUseCase {
	return NewEnrichCoordinatesUseCase(&fakeGeocoder{matches: map[string]domain.Coordinates{}}, testEnrichmentConfig())
}

func TestGetProperty(t *testing.T) {
	ctx := context.Background()
	uc := NewGetPropertyUseCase(seedStorage())

	t.Run("anonymous reads published record", func(t *testing.T) {
		p, err := uc.Execute(ctx, nil, "a-published")
		require.NoError(t, err)
		require.Equal(t, "Casa", p.Title)
	})

	t.Run("non-owners never see unpublished records", func(t *testing.T) {
		for _, id := range []string{"b-pending", "c-draft"} {
			for _, c := range []*domain.Caller{nil, caller(strangerID), {ID: strangerID, Role: "admin"}} {
				_, err := uc.Execute(ctx, c, id)
				require.ErrorIs(t, err, domain.ErrUnauthorized, "record %s", id)
			}
		}
	})

	t.Run("owner reads own records regardless of status", func(t *testing.T) {
		for _, id := range []string{"a-published", "b-pending", "c-draft"} {
			p, err := uc.Execute(ctx, caller(ownerID), id)
			require.NoError(t, err)
			require.Equal(t, id, p.DocumentID)
		}
	})

	t.Run("legacy numeric id does not grant ownership", func(t *testing.T) {
		legacy := int64(42)
		_, err := uc.Execute(ctx, &domain.Caller{ID: "", LegacyID: &legacy}, "b-pending")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := uc.Execute(ctx, caller(ownerID), "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		storage := seedStorage()
		storage.failWith = errors.New("connection refused")
		_, err := NewGetPropertyUseCase(storage).Execute(ctx, nil, "a-published")
		require.ErrorIs(t, err, domain.ErrUpstreamFailure)
		require.Contains(t, err.Error(), "connection refused")
	})

	t.Run("constraint rejection stays a payload error", func(t *testing.T) {
		storage := seedStorage()
		storage.failWith = fmt.Errorf("failed to update property: %w", fmt.Errorf("%w: constraint properties_status_check violated", domain.ErrInvalidPayload))
		_, err := NewGetPropertyUseCase(storage).Execute(ctx, nil, "a-published")
		require.ErrorIs(t, err, domain.ErrInvalidPayload)
		require.NotErrorIs(t, err, domain.ErrUpstreamFailure)
	})
}

func TestListProperties(t *testing.T) {
	ctx := context.Background()

	t.Run("without mine-only only published records are returned", func(t *testing.T) {
		storage := seedStorage()
		uc := NewListPropertiesUseCase(storage)

		for _, c := range []*domain.Caller{nil, caller(ownerID), caller(strangerID)} {
			res, err := uc.Execute(ctx, c, domain.ListQuery{StatusOverride: ptr(domain.StatusPending)})
			require.NoError(t, err)
			require.Len(t, res.Properties, 2)
			for _, p := range res.Properties {
				require.Equal(t, domain.StatusPublished, p.Status)
			}
			require.Equal(t, domain.ScopePublished, storage.lastScope)
		}
	})

	t.Run("anonymous mine-only is ignored", func(t *testing.T) {
		storage := seedStorage()
		uc := NewListPropertiesUseCase(storage)

		res, err := uc.Execute(ctx, nil, domain.ListQuery{
			MineOnly: true,
			Filters:  domain.PropertyFilters{OwnerID: ownerID},
		})
		require.NoError(t, err)
		require.Len(t, res.Properties, 2)
		require.Empty(t, storage.lastFilters.OwnerID)
	})

	t.Run("client owner filter is dropped for public lists", func(t *testing.T) {
		storage := seedStorage()
		uc := NewListPropertiesUseCase(storage)

		_, err := uc.Execute(ctx, caller(strangerID), domain.ListQuery{Filters: domain.PropertyFilters{OwnerID: ownerID}})
		require.NoError(t, err)
		require.Empty(t, storage.lastFilters.OwnerID)
		require.Equal(t, domain.StatusPublished, *storage.lastFilters.Status)
	})

	t.Run("mine-only returns all own records", func(t *testing.T) {
		storage := seedStorage()
		uc := NewListPropertiesUseCase(storage)

		res, err := uc.Execute(ctx, caller(ownerID), domain.ListQuery{MineOnly: true})
		require.NoError(t, err)
		require.Len(t, res.Properties, 3)
		require.Equal(t, domain.ScopeAll, storage.lastScope)
		require.Equal(t, ownerID, storage.lastFilters.OwnerID)
	})

	t.Run("mine-only honors status override", func(t *testing.T) {
		storage := seedStorage()
		uc := NewListPropertiesUseCase(storage)

		res, err := uc.Execute(ctx, caller(ownerID), domain.ListQuery{MineOnly: true, StatusOverride: ptr(domain.StatusDraft)})
		require.NoError(t, err)
		require.Len(t, res.Properties, 1)
		require.Equal(t, "c-draft", res.Properties[0].DocumentID)
	})

	t.Run("page size is clamped", func(t *testing.T) {
		storage := seedStorage()
		uc := NewListPropertiesUseCase(storage)

		_, err := uc.Execute(ctx, nil, domain.ListQuery{Limit: 1000, Offset: -5})
		require.NoError(t, err)
		require.Equal(t, defaultPageSize, storage.lastLimit)
		require.Equal(t, 0, storage.lastOffset)
	})
}

func TestCreateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("geocoded on first candidate, owner and status forced", func(t *testing.T) {
		storage := newFakeStorage()
		geo := &fakeGeocoder{matches: map[string]domain.Coordinates{
			"Rua das Flores, 123, Centro, Campo Grande, MS, Brasil": {Latitude: -20.4697, Longitude: -54.6201},
		}}
		notifier := &fakeNotifier{}
		uc := NewCreatePropertyUseCase(storage, NewEnrichCoordinatesUseCase(geo, testEnrichmentConfig()), notifier, "Campo Grande")

		created, err := uc.Execute(ctx, caller(ownerID), domain.PropertyPayload{
			Title:        ptr("Casa com quintal"),
			Street:       ptr("Rua das Flores, 123"),
			Neighborhood: ptr(domain.NewNeighborhood("", "Centro")),
			City:         ptr("Campo Grande"),
			Status:       ptr(domain.StatusPublished),
			OwnerID:      ptr(strangerID),
		})
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, created.Status)
		require.Equal(t, ownerID, created.OwnerID)
		require.NotEmpty(t, created.DocumentID)
		require.Equal(t, -20.4697, *created.Latitude)
		require.Equal(t, -54.6201, *created.Longitude)
		require.NotEmpty(t, created.Geohash)
		require.Len(t, geo.queries, 1)

		require.Len(t, notifier.events, 1)
		require.Equal(t, created.DocumentID, notifier.events[0].DocumentID)
	})

	t.Run("geocoding failure does not block creation", func(t *testing.T) {
		storage := newFakeStorage()
		geo := &fakeGeocoder{matches: map[string]domain.Coordinates{}}
		uc := NewCreatePropertyUseCase(storage, NewEnrichCoordinatesUseCase(geo, testEnrichmentConfig()), nil, "")

		created, err := uc.Execute(ctx, caller(ownerID), domain.PropertyPayload{Street: ptr("Rua Inexistente, 0")})
		require.NoError(t, err)
		require.Nil(t, created.Latitude)
		require.Nil(t, created.Longitude)
		require.Empty(t, created.Geohash)
		require.Equal(t, domain.DefaultCity, created.City)
		require.Len(t, geo.queries, 2)
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		storage := newFakeStorage()
		uc := NewCreatePropertyUseCase(storage, noopEnricher(), nil, "")

		_, err := uc.Execute(ctx, nil, domain.PropertyPayload{Title: ptr("x")})
		require.ErrorIs(t, err, domain.ErrAuthenticationRequired)
		require.Empty(t, storage.records)
	})

	t.Run("notifier failure is not fatal", func(t *testing.T) {
		uc := NewCreatePropertyUseCase(newFakeStorage(), noopEnricher(), &fakeNotifier{failErr: errors.New("broker down")}, "")
		_, err := uc.Execute(ctx, caller(ownerID), domain.PropertyPayload{Title: ptr("x")})
		require.NoError(t, err)
	})
}

func TestUpdateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("non-owner update is rejected without mutation", func(t *testing.T) {
		storage := seedStorage()
		uc := NewUpdatePropertyUseCase(storage, noopEnricher(), nil, UpdatePolicy{ResubmitOnEdit: true})

		_, err := uc.Execute(ctx, caller(strangerID), "b-pending", domain.PropertyPayload{Title: ptr("hijacked")})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		require.Equal(t, 0, storage.updateCalls)
		require.Equal(t, "Apto", storage.get("b-pending").Title)
	})

	t.Run("owner field in payload never changes the owner", func(t *testing.T) {
		storage := seedStorage()
		uc := NewUpdatePropertyUseCase(storage, noopEnricher(), nil, UpdatePolicy{ResubmitOnEdit: true})

		updated, err := uc.Execute(ctx, caller(ownerID), "a-published", domain.PropertyPayload{
			Title:   ptr("Casa reformada"),
			OwnerID: ptr(strangerID),
		})
		require.NoError(t, err)
		require.Equal(t, ownerID, updated.OwnerID)
		require.Equal(t, "Casa reformada", updated.Title)
	})

	t.Run("resubmit policy sends edited listing back to moderation", func(t *testing.T) {
		storage := seedStorage()
		notifier := &fakeNotifier{}
		uc := NewUpdatePropertyUseCase(storage, noopEnricher(), notifier, UpdatePolicy{ResubmitOnEdit: true})

		updated, err := uc.Execute(ctx, caller(ownerID), "a-published", domain.PropertyPayload{Title: ptr("novo")})
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, updated.Status)
		require.Len(t, notifier.events, 1)
	})

	t.Run("without resubmit owner may keep draft but not publish", func(t *testing.T) {
		storage := seedStorage()
		uc := NewUpdatePropertyUseCase(storage, noopEnricher(), nil, UpdatePolicy{ResubmitOnEdit: false})

		updated, err := uc.Execute(ctx, caller(ownerID), "c-draft", domain.PropertyPayload{Status: ptr(domain.StatusDraft)})
		require.NoError(t, err)
		require.Equal(t, domain.StatusDraft, updated.Status)

		updated, err = uc.Execute(ctx, caller(ownerID), "c-draft", domain.PropertyPayload{Status: ptr(domain.StatusPublished)})
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, updated.Status)
	})

	t.Run("changed street is geocoded using stored neighborhood", func(t *testing.T) {
		storage := newFakeStorage(domain.Property{
			DocumentID:   "e-house",
			Street:       "Rua Velha, 1",
			Neighborhood: domain.NewNeighborhood("", "Centro"),
			City:         "Campo Grande",
			Status:       domain.StatusPublished,
			OwnerID:      ownerID,
		})
		geo := &fakeGeocoder{matches: map[string]domain.Coordinates{
			"Rua Nova, 2, Centro, Campo Grande, MS, Brasil": {Latitude: -20.44, Longitude: -54.64},
		}}
		uc := NewUpdatePropertyUseCase(storage, NewEnrichCoordinatesUseCase(geo, testEnrichmentConfig()), nil, UpdatePolicy{ResubmitOnEdit: true})

		updated, err := uc.Execute(ctx, caller(ownerID), "e-house", domain.PropertyPayload{Street: ptr("Rua Nova, 2")})
		require.NoError(t, err)
		require.Equal(t, -20.44, *updated.Latitude)
		require.Equal(t, "Rua Nova, 2", updated.Street)
	})

	t.Run("missing record", func(t *testing.T) {
		uc := NewUpdatePropertyUseCase(seedStorage(), noopEnricher(), nil, UpdatePolicy{})
		_, err := uc.Execute(ctx, caller(ownerID), "nope", domain.PropertyPayload{})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMigrateLegacyOwners(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage(
		domain.Property{DocumentID: "a", OwnerID: "17"},
		domain.Property{DocumentID: "b", OwnerID: "18"},
		domain.Property{DocumentID: "c", OwnerID: ownerID},
		domain.Property{DocumentID: "d", OwnerID: "99"},
	)
	directory := fakeDirectory{17: ownerID, 18: strangerID}

	stats, err := NewMigrateLegacyOwnersUseCase(storage, directory).Execute(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Scanned)
	require.Equal(t, 2, stats.Migrated)
	require.Equal(t, 1, stats.Unresolved)

	require.Equal(t, ownerID, storage.get("a").OwnerID)
	require.Equal(t, strangerID, storage.get("b").OwnerID)
	require.Equal(t, "99", storage.get("d").OwnerID)

	t.Run("second run has nothing left to migrate", func(t *testing.T) {
		stats, err := NewMigrateLegacyOwnersUseCase(storage, directory).Execute(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, 0, stats.Migrated)
		require.Equal(t, 1, stats.Unresolved)
	})
}
