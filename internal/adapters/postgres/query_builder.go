package postgres

import (
	"fmt"
	"listing-service/internal/core/domain"
	"strings"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) AddIntFilter(fieldName string, min *int, max *int) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) build() (string, []interface{}) {
	if len(qb.conditions) == 0 {
		return "", qb.args
	}
	return "WHERE " + strings.Join(qb.conditions, " AND "), qb.args
}

// applyFilters строит WHERE для списка. Область видимости применяется первой
// и не зависит от остальных фильтров.
func applyFilters(filters domain.PropertyFilters, scope domain.StatusScope) (string, []interface{}) {
	qb := newQueryBuilder()

	if scope != domain.ScopeAll {
		qb.conditions = append(qb.conditions, "p.status = 'published'")
	}
	if filters.Status != nil {
		qb.addCondition("%s = $%d", "p.status", string(*filters.Status))
	}
	if filters.OwnerID != "" {
		qb.addCondition("%s = $%d", "p.owner_id", filters.OwnerID)
	}

	if filters.City != "" {
		qb.addCondition("lower(%s) = lower($%d)", "p.city", filters.City)
	}
	if filters.Region != "" {
		qb.addCondition("lower(%s) = lower($%d)", "p.neighborhood_region", filters.Region)
	}
	if filters.Neighborhood != "" {
		qb.addCondition("lower(%s) = lower($%d)", "p.neighborhood", filters.Neighborhood)
	}
	if filters.Purpose != "" {
		qb.addCondition("%s = $%d", "p.purpose", filters.Purpose)
	}
	if filters.Type != "" {
		qb.addCondition("%s = $%d", "p.type", filters.Type)
	}

	qb.AddFloatFilter("p.price", filters.PriceMin, filters.PriceMax)
	qb.AddIntFilter("p.bedrooms", filters.BedroomsMin, nil)

	// Видимая область карты: geohash-префикс, только объекты с координатами.
	if filters.GeohashPrefix != "" {
		qb.addCondition("%s LIKE $%d", "p.geohash", strings.ToLower(filters.GeohashPrefix)+"%")
	}

	return qb.build()
}

// updateBuilder собирает SET для частичного обновления: nil-поля payload не трогаются.
type updateBuilder struct {
	sets  []string
	args  []interface{}
	argId int
}

func newUpdateBuilder() *updateBuilder {
	return &updateBuilder{argId: 1}
}

func (ub *updateBuilder) set(column string, value interface{}) {
	ub.sets = append(ub.sets, fmt.Sprintf("%s = $%d", column, ub.argId))
	ub.args = append(ub.args, value)
	ub.argId++
}

// applyPayload переводит payload в SET. owner_id здесь нет и быть не может.
func applyPayload(p domain.PropertyPayload) *updateBuilder {
	ub := newUpdateBuilder()

	if p.Title != nil {
		ub.set("title", *p.Title)
	}
	if p.Description != nil {
		ub.set("description", *p.Description)
	}
	if p.Price != nil {
		ub.set("price", *p.Price)
	}
	if p.Bedrooms != nil {
		ub.set("bedrooms", *p.Bedrooms)
	}
	if p.Bathrooms != nil {
		ub.set("bathrooms", *p.Bathrooms)
	}
	if p.Size != nil {
		ub.set("size", *p.Size)
	}
	if p.Purpose != nil {
		ub.set("purpose", *p.Purpose)
	}
	if p.Type != nil {
		ub.set("type", *p.Type)
	}
	if p.Street != nil {
		ub.set("street", p.StreetAddress())
	}
	if p.Neighborhood != nil {
		ub.set("neighborhood_region", p.Neighborhood.Region)
		ub.set("neighborhood", p.Neighborhood.Name)
	}
	if p.City != nil {
		ub.set("city", domain.NormalizeCity(*p.City))
	}

	// Координаты пишутся только парой, вместе с geohash.
	if c, ok := p.Coordinates(); ok {
		ub.set("latitude", c.Latitude)
		ub.set("longitude", c.Longitude)
		ub.set("geohash", domain.EncodeGeohash(p.Latitude, p.Longitude))
	}

	if p.Status != nil {
		ub.set("status", string(*p.Status))
		ub.sets = append(ub.sets, fmt.Sprintf(
			"published_at = CASE WHEN $%d = 'published' THEN COALESCE(published_at, now()) ELSE published_at END",
			ub.argId-1,
		))
	}

	return ub
}

// build возвращает SET-часть и номер следующего плейсхолдера.
func (ub *updateBuilder) build() (string, []interface{}, int) {
	sets := append(ub.sets, "updated_at = now()")
	return strings.Join(sets, ", "), ub.args, ub.argId
}
