package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"listing-service/internal/core/domain"
	"strings"
	"time"
)

// PropertyRequest - тело POST/PUT/PATCH. Поля объявления лежат внутри "data".
type PropertyRequest struct {
	Data PropertyFields `json:"data"`
}

// PropertyFields - поля мутации. Отсутствующее поле не меняется.
type PropertyFields struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	Size        *float64 `json:"size"`
	Purpose     *string  `json:"purpose"`
	Type        *string  `json:"type"`

	Street       *string            `json:"street"`
	Neighborhood *NeighborhoodInput `json:"neighborhood"`
	City         *string            `json:"city"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Status *string `json:"status"`
	// OwnerID бывает строкой или старым числовым id.
	OwnerID json.RawMessage `json:"owner_id"`
}

// NeighborhoodInput принимает район строкой или объектом {region, neighborhood}.
// Старые ключи фронтенда {regiao, bairro} тоже понимаются.
type NeighborhoodInput struct {
	Value domain.Neighborhood
}

func (n *NeighborhoodInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		n.Value = domain.NewNeighborhood("", name)
		return nil
	}

	var obj struct {
		Region       string `json:"region"`
		Neighborhood string `json:"neighborhood"`
		Regiao       string `json:"regiao"`
		Bairro       string `json:"bairro"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("neighborhood must be a string or an object: %w", err)
	}
	region := firstNonEmpty(obj.Region, obj.Regiao)
	name := firstNonEmpty(obj.Neighborhood, obj.Bairro)
	n.Value = domain.NewNeighborhood(region, name)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// toPayload переводит DTO в доменный payload.
func (f PropertyFields) toPayload() (domain.PropertyPayload, error) {
	payload := domain.PropertyPayload{
		Title:       f.Title,
		Description: f.Description,
		Price:       f.Price,
		Bedrooms:    f.Bedrooms,
		Bathrooms:   f.Bathrooms,
		Size:        f.Size,
		Purpose:     f.Purpose,
		Type:        f.Type,
		Street:      f.Street,
		City:        f.City,
		Latitude:    f.Latitude,
		Longitude:   f.Longitude,
	}
	if f.Neighborhood != nil {
		n := f.Neighborhood.Value
		payload.Neighborhood = &n
	}
	if f.Status != nil {
		status, err := domain.ParseStatus(*f.Status)
		if err != nil {
			return domain.PropertyPayload{}, err
		}
		payload.Status = &status
	}
	if raw := bytes.TrimSpace(f.OwnerID); len(raw) > 0 && string(raw) != "null" {
		owner := strings.Trim(string(raw), `"`)
		payload.OwnerID = &owner
	}
	return payload, nil
}

// NeighborhoodResponse - район в ответе.
type NeighborhoodResponse struct {
	Region       string `json:"region,omitempty"`
	Neighborhood string `json:"neighborhood"`
}

// PropertyResponse - объявление в ответе. Внутренний id строки наружу не отдается.
type PropertyResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Price        *float64              `json:"price"`
	Bedrooms     *int                  `json:"bedrooms"`
	Bathrooms    *int                  `json:"bathrooms"`
	Size         *float64              `json:"size"`
	Purpose      string                `json:"purpose"`
	Type         string                `json:"type"`
	Street       string                `json:"street"`
	Neighborhood *NeighborhoodResponse `json:"neighborhood"`
	City         string                `json:"city"`
	Latitude     *float64              `json:"latitude"`
	Longitude    *float64              `json:"longitude"`
	Geohash      string                `json:"geohash,omitempty"`
	Status       string                `json:"status"`
	// OwnerID видит только владелец.
	OwnerID     string     `json:"owner_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SinglePropertyResponse - обертка {"data": {...}}, как ждет фронтенд.
type SinglePropertyResponse struct {
	Data PropertyResponse `json:"data"`
}

// PaginatedPropertiesResponse - страница объявлений.
type PaginatedPropertiesResponse struct {
	Data    []PropertyResponse `json:"data"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

// ErrorResponse - стандартная структура для ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toPropertyResponse(p *domain.Property, caller *domain.Caller) PropertyResponse {
	resp := PropertyResponse{
		ID:          p.DocumentID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Size:        p.Size,
		Purpose:     p.Purpose,
		Type:        p.Type,
		Street:      p.Street,
		City:        p.City,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		PublishedAt: p.PublishedAt,
	}
	if !p.Neighborhood.IsZero() {
		resp.Neighborhood = &NeighborhoodResponse{
			Region:       p.Neighborhood.Region,
			Neighborhood: p.Neighborhood.Name,
		}
	}
	// Координаты отдаются только парой.
	if p.HasCoordinates() {
		resp.Latitude = p.Latitude
		resp.Longitude = p.Longitude
		resp.Geohash = p.Geohash
	}
	if caller.Owns(p) {
		resp.OwnerID = p.OwnerID
	}
	return resp
}
