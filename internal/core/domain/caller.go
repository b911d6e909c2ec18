package domain

// Caller - аутентифицированный пользователь, от имени которого выполняется запрос.
// nil *Caller - анонимный запрос.
type Caller struct {
	// ID - стабильный идентификатор (document id) из identity provider.
	// Только он сравнивается с Property.OwnerID.
	ID string
	// LegacyID - старый числовой id, который еще встречается в токенах.
	// Для проверки владения не используется.
	LegacyID *int64
	Email    string
	Role     string
}

// IsAuthenticated безопасно вызывается и на nil.
func (c *Caller) IsAuthenticated() bool {
	return c != nil && c.ID != ""
}

// Owns - вызывающий является владельцем записи.
func (c *Caller) Owns(p *Property) bool {
	if !c.IsAuthenticated() || p == nil {
		return false
	}
	return p.OwnerID == c.ID
}
