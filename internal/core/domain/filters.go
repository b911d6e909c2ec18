package domain

// PropertyFilters - фильтры для поиска объявлений.
type PropertyFilters struct {
	City         string
	Region       string
	Neighborhood string
	Purpose      string
	Type         string
	PriceMin     *float64
	PriceMax     *float64
	BedroomsMin  *int
	// GeohashPrefix - видимая область карты.
	GeohashPrefix string

	// OwnerID и Status заполняются только слоем авторизации.
	OwnerID string
	Status  *Status
}

// ListQuery - то, что пришло от клиента в запросе списка.
type ListQuery struct {
	Filters PropertyFilters
	// MineOnly - показать только свои объявления (для личного кабинета).
	MineOnly bool
	// StatusOverride учитывается только вместе с MineOnly.
	StatusOverride *Status
	Limit          int
	Offset         int
}

// PaginatedResult - страница объявлений.
type PaginatedResult struct {
	Properties   []Property
	TotalCount   int64
	CurrentPage  int
	ItemsPerPage int
}

// LegacyOwnerRecord - объявление, у которого владелец записан старым числовым id.
type LegacyOwnerRecord struct {
	DocumentID string
	OwnerID    string
}

// OwnerMigrationStats - итог миграции владельцев.
type OwnerMigrationStats struct {
	Scanned    int
	Migrated   int
	Unresolved int
}
