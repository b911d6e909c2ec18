package domain

import (
	"math"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"
)

// DefaultCity - город, который подставляется, если в объявлении он не указан.
const DefaultCity = "Campo Grande"

// geohashPrecision - точность geohash, который хранится вместе с координатами (~150м).
const geohashPrecision = 7

// Property - основная доменная сущность: объявление об аренде/продаже.
type Property struct {
	ID         int64  // внутренний id строки, наружу не отдается
	DocumentID string // стабильный идентификатор объявления

	Title       string
	Description string
	Price       *float64
	Bedrooms    *int
	Bathrooms   *int
	Size        *float64
	Purpose     string // aluguel / venda
	Type        string

	Street       string
	Neighborhood Neighborhood
	City         string

	Latitude  *float64
	Longitude *float64
	Geohash   string

	Status  Status
	OwnerID string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
}

// Coordinates - пара широта/долгота.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Valid сообщает, можно ли считать пару координат установленной.
// Нули и значения вне допустимых диапазонов считаются "не установлено".
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	if c.Latitude == 0 || c.Longitude == 0 {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// CoordinatesFrom собирает пару из двух необязательных значений.
func CoordinatesFrom(lat, lon *float64) (Coordinates, bool) {
	if lat == nil || lon == nil {
		return Coordinates{}, false
	}
	c := Coordinates{Latitude: *lat, Longitude: *lon}
	return c, c.Valid()
}

// Coordinates возвращает координаты объекта, если они установлены.
func (p *Property) Coordinates() (Coordinates, bool) {
	return CoordinatesFrom(p.Latitude, p.Longitude)
}

// HasCoordinates - обе координаты есть и валидны.
func (p *Property) HasCoordinates() bool {
	_, ok := p.Coordinates()
	return ok
}

// IsPublished - объект виден всем.
func (p *Property) IsPublished() bool {
	return p.Status == StatusPublished
}

// EncodeGeohash вычисляет geohash для координат, пустая строка - если координат нет.
func EncodeGeohash(lat, lon *float64) string {
	c, ok := CoordinatesFrom(lat, lon)
	if !ok {
		return ""
	}
	return geohash.EncodeWithPrecision(c.Latitude, c.Longitude, geohashPrecision)
}

// NormalizeCity возвращает город по умолчанию для пустого значения.
func NormalizeCity(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return DefaultCity
	}
	return city
}
