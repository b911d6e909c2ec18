package usecase

import (
	"context"
	"errors"
	"listing-service/internal/core/domain"
	"sort"
	"sync"
)

type fakeStorage struct {
	mu      sync.Mutex
	records map[string]*domain.Property

	failWith    error
	updateCalls int
	lastFilters domain.PropertyFilters
	lastScope   domain.StatusScope
	lastLimit   int
	lastOffset  int
}

func newFakeStorage(records ...domain.Property) *fakeStorage {
	s := &fakeStorage{records: map[string]*domain.Property{}}
	for i := range records {
		r := records[i]
		s.records[r.DocumentID] = &r
	}
	return s
}

func (s *fakeStorage) FindOne(_ context.Context, documentID string) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	r, ok := s.records[documentID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *fakeStorage) FindMany(_ context.Context, filters domain.PropertyFilters, scope domain.StatusScope, limit, offset int) (*domain.PaginatedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.lastFilters, s.lastScope, s.lastLimit, s.lastOffset = filters, scope, limit, offset

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := &domain.PaginatedResult{ItemsPerPage: limit, CurrentPage: offset/limit + 1}
	for _, id := range ids {
		r := s.records[id]
		if scope == domain.ScopePublished && r.Status != domain.StatusPublished {
			continue
		}
		if filters.Status != nil && r.Status != *filters.Status {
			continue
		}
		if filters.OwnerID != "" && r.OwnerID != filters.OwnerID {
			continue
		}
		result.Properties = append(result.Properties, *r)
	}
	result.TotalCount = int64(len(result.Properties))
	return result, nil
}

func (s *fakeStorage) Create(_ context.Context, property domain.Property) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	property.ID = int64(len(s.records) + 1)
	s.records[property.DocumentID] = &property
	cp := property
	return &cp, nil
}

func (s *fakeStorage) Update(_ context.Context, documentID string, p domain.PropertyPayload) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.failWith != nil {
		return nil, s.failWith
	}
	r, ok := s.records[documentID]
	if !ok {
		return nil, nil
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Street != nil {
		r.Street = p.StreetAddress()
	}
	if p.City != nil {
		r.City = *p.City
	}
	if p.Neighborhood != nil {
		r.Neighborhood = *p.Neighborhood
	}
	if p.Latitude != nil && p.Longitude != nil {
		r.Latitude, r.Longitude = p.Latitude, p.Longitude
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	// Владельца хранилище не меняет никогда, даже если он пришел в payload.
	cp := *r
	return &cp, nil
}

func (s *fakeStorage) FindLegacyOwners(_ context.Context, limit int, after string) ([]domain.LegacyOwnerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []domain.LegacyOwnerRecord
	for _, id := range ids {
		if id <= after {
			continue
		}
		r := s.records[id]
		if !isDigits(r.OwnerID) {
			continue
		}
		out = append(out, domain.LegacyOwnerRecord{DocumentID: id, OwnerID: r.OwnerID})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStorage) ReassignOwner(_ context.Context, documentID, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[documentID]
	if !ok || r.OwnerID != from {
		return errors.New("owner changed concurrently")
	}
	r.OwnerID = to
	return nil
}

func (s *fakeStorage) get(id string) domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.records[id]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// fakeGeocoder отвечает только на заранее известные запросы и запоминает все вызовы.
type fakeGeocoder struct {
	mu      sync.Mutex
	matches map[string]domain.Coordinates
	failAll error
	queries []string
}

func (g *fakeGeocoder) Search(_ context.Context, query string) (*domain.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries = append(g.queries, query)
	if g.failAll != nil {
		return nil, g.failAll
	}
	c, ok := g.matches[query]
	if !ok {
		return nil, domain.ErrNoGeocodeMatch
	}
	return &c, nil
}

type fakeNotifier struct {
	events  []domain.ListingSubmitted
	failErr error
}

func (n *fakeNotifier) NotifySubmitted(_ context.Context, e domain.ListingSubmitted) error {
	n.events = append(n.events, e)
	return n.failErr
}

type fakeDirectory map[int64]string

func (d fakeDirectory) ResolveLegacyOwner(_ context.Context, legacyID int64) (string, error) {
	return d[legacyID], nil
}

func ptr[T any](v T) *T { return &v }

func caller(id string) *domain.Caller { return &domain.Caller{ID: id} }
