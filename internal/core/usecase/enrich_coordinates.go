package usecase

import (
	"context"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"strings"

	"github.com/samber/lo"
)

// EnrichmentConfig - части адреса, которые подставляются в запрос к геокодеру.
type EnrichmentConfig struct {
	DefaultCity string // "Campo Grande"
	RegionCode  string // "MS"
	Country     string // "Brasil"
}

// AddressParts - компоненты адреса для построения вариантов запроса.
type AddressParts struct {
	Street       string
	Neighborhood string
	City         string
	RegionCode   string
	Country      string
}

// EnrichCoordinatesUseCase получает координаты по адресу перед сохранением объявления.
// Любая ошибка геокодера поглощается: объявление сохраняется без координат.
type EnrichCoordinatesUseCase struct {
	geocoder port.GeocoderPort
	cfg      EnrichmentConfig
}

func NewEnrichCoordinatesUseCase(geocoder port.GeocoderPort, cfg EnrichmentConfig) *EnrichCoordinatesUseCase {
	if cfg.DefaultCity == "" {
		cfg.DefaultCity = domain.DefaultCity
	}
	return &EnrichCoordinatesUseCase{geocoder: geocoder, cfg: cfg}
}

// Execute меняет payload на месте. current - сохраненная запись при update, nil при create.
func (uc *EnrichCoordinatesUseCase) Execute(ctx context.Context, payload *domain.PropertyPayload, current *domain.Property) {
	logger := contextkeys.LoggerFromContext(ctx)

	// Вручную указанные координаты не трогаем.
	if _, ok := payload.Coordinates(); ok {
		logger.Debug("Payload already has coordinates, skipping geocoding", nil)
		return
	}
	// Половинка пары или нули в хранилище не попадают.
	payload.ClearInvalidCoordinates()

	street := payload.StreetAddress()
	if street == "" {
		return
	}

	// Улица не менялась и координаты уже есть - повторно не геокодируем.
	if current != nil && current.HasCoordinates() && strings.EqualFold(current.Street, street) {
		logger.Debug("Street unchanged and record already geocoded, skipping", port.Fields{"document_id": current.DocumentID})
		return
	}

	parts := uc.addressParts(street, payload, current)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "EnrichCoordinates",
		"street":   street,
	})

	coords, err := uc.resolve(ctx, BuildAddressCandidates(parts), ucLogger)
	if err != nil {
		ucLogger.Warn("Could not geocode address, saving without coordinates", port.Fields{"error": err.Error()})
		return
	}

	payload.SetCoordinates(*coords)
	ucLogger.Info("Coordinates set from address", port.Fields{
		"latitude":  coords.Latitude,
		"longitude": coords.Longitude,
	})
}

// resolve перебирает варианты адреса по порядку и останавливается на первом найденном.
func (uc *EnrichCoordinatesUseCase) resolve(ctx context.Context, candidates []string, logger port.LoggerPort) (*domain.Coordinates, error) {
	for i, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		attemptLogger := logger.WithFields(port.Fields{"attempt": i + 1, "query": candidate})
		attemptLogger.Debug("Geocoding attempt", nil)

		coords, err := uc.geocoder.Search(ctx, candidate)
		if err != nil {
			attemptLogger.Debug("Geocoding attempt failed, trying next variant", port.Fields{"error": err.Error()})
			continue
		}
		if coords == nil || !coords.Valid() {
			attemptLogger.Debug("Geocoder returned invalid coordinates, trying next variant", nil)
			continue
		}
		return coords, nil
	}
	return nil, domain.ErrEnrichmentUnavailable
}

func (uc *EnrichCoordinatesUseCase) addressParts(street string, payload *domain.PropertyPayload, current *domain.Property) AddressParts {
	parts := AddressParts{
		Street:     street,
		RegionCode: uc.cfg.RegionCode,
		Country:    uc.cfg.Country,
	}

	// Недостающие части адреса берем из сохраненной записи.
	switch {
	case payload.Neighborhood != nil:
		parts.Neighborhood = payload.Neighborhood.DisplayName()
	case current != nil:
		parts.Neighborhood = current.Neighborhood.DisplayName()
	}

	switch {
	case payload.City != nil && strings.TrimSpace(*payload.City) != "":
		parts.City = strings.TrimSpace(*payload.City)
	case current != nil && current.City != "":
		parts.City = current.City
	default:
		parts.City = uc.cfg.DefaultCity
	}
	return parts
}

// BuildAddressCandidates строит варианты адреса от самого точного к самому общему.
// Пустые компоненты пропускаются, одинаковые варианты схлопываются.
func BuildAddressCandidates(p AddressParts) []string {
	variants := [][]string{
		{p.Street, p.Neighborhood, p.City, p.RegionCode, p.Country},
		{p.Street, p.City, p.RegionCode, p.Country},
		{p.Street, p.City, p.Country},
	}

	candidates := make([]string, 0, len(variants))
	for _, v := range variants {
		candidates = append(candidates, joinAddress(v))
	}
	return lo.Uniq(lo.Compact(candidates))
}

func joinAddress(parts []string) string {
	if strings.TrimSpace(parts[0]) == "" {
		return ""
	}
	kept := lo.Filter(parts, func(s string, _ int) bool {
		return strings.TrimSpace(s) != ""
	})
	return strings.Join(lo.Map(kept, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}), ", ")
}
