package domain

// PropertyPayload - данные мутации (create/update). nil означает "поле не передано".
type PropertyPayload struct {
	Title       *string
	Description *string
	Price       *float64
	Bedrooms    *int
	Bathrooms   *int
	Size        *float64
	Purpose     *string
	Type        *string

	Street       *string
	Neighborhood *Neighborhood
	City         *string

	Latitude  *float64
	Longitude *float64

	// Status и OwnerID принимаются от клиента только для того,
	// чтобы слой авторизации мог их перезаписать или выбросить.
	Status  *Status
	OwnerID *string
}

// StreetAddress возвращает улицу из payload без пробелов по краям.
func (p *PropertyPayload) StreetAddress() string {
	if p.Street == nil {
		return ""
	}
	return collapseSpaces(*p.Street)
}

// Coordinates возвращает пару координат, если она полная и валидная.
func (p *PropertyPayload) Coordinates() (Coordinates, bool) {
	return CoordinatesFrom(p.Latitude, p.Longitude)
}

// SetCoordinates всегда выставляет обе координаты вместе.
func (p *PropertyPayload) SetCoordinates(c Coordinates) {
	lat, lon := c.Latitude, c.Longitude
	p.Latitude = &lat
	p.Longitude = &lon
}

// ClearInvalidCoordinates убирает неполную или невалидную пару:
// в хранилище попадают либо обе координаты, либо ни одной.
func (p *PropertyPayload) ClearInvalidCoordinates() {
	if p.Latitude == nil && p.Longitude == nil {
		return
	}
	if _, ok := p.Coordinates(); !ok {
		p.Latitude = nil
		p.Longitude = nil
	}
}

// StripOwner удаляет владельца: после создания он не меняется.
func (p *PropertyPayload) StripOwner() {
	p.OwnerID = nil
}

// ToProperty строит новую запись из payload (для create).
func (p *PropertyPayload) ToProperty() Property {
	prop := Property{
		Price:     p.Price,
		Bedrooms:  p.Bedrooms,
		Bathrooms: p.Bathrooms,
		Size:      p.Size,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}
	if p.Title != nil {
		prop.Title = *p.Title
	}
	if p.Description != nil {
		prop.Description = *p.Description
	}
	if p.Purpose != nil {
		prop.Purpose = *p.Purpose
	}
	if p.Type != nil {
		prop.Type = *p.Type
	}
	prop.Street = p.StreetAddress()
	if p.Neighborhood != nil {
		prop.Neighborhood = *p.Neighborhood
	}
	city := ""
	if p.City != nil {
		city = *p.City
	}
	prop.City = NormalizeCity(city)
	if p.Status != nil {
		prop.Status = *p.Status
	}
	if p.OwnerID != nil {
		prop.OwnerID = *p.OwnerID
	}
	prop.Geohash = EncodeGeohash(prop.Latitude, prop.Longitude)
	return prop
}
