package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

type Config struct {
	BaseURL   string // "https://nominatim.openstreetmap.org"
	UserAgent string // политика Nominatim требует идентифицировать клиента
	Timeout   time.Duration
}

// GeocoderAdapter ищет координаты через Nominatim (OpenStreetMap).
type GeocoderAdapter struct {
	// родительский коллектор, каждый поиск работает на клоне
	collector *colly.Collector
	baseURL   string
	timeout   time.Duration
}

// searchResult - элемент ответа /search. Координаты приходят строками.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewGeocoderAdapter(cfg Config) (*GeocoderAdapter, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("GeocoderAdapter: invalid base URL %q", cfg.BaseURL)
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("GeocoderAdapter: user agent is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	// Клоны делят HTTP-клиент, поэтому таймаут выставляется один раз здесь.
	c.SetRequestTimeout(cfg.Timeout)

	return &GeocoderAdapter{
		collector: c,
		baseURL:   base,
		timeout:   cfg.Timeout,
	}, nil
}

// Search возвращает лучший результат поиска по строке адреса.
func (a *GeocoderAdapter) Search(ctx context.Context, query string) (*domain.Coordinates, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	searchLogger := logger.WithFields(port.Fields{"component": "NominatimGeocoderAdapter"})

	reqCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	collector := a.collector.Clone()
	collector.Context = reqCtx

	var coords *domain.Coordinates
	var criticalError error

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
		searchLogger.Debug("Making geocoding request", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		c, err := parseTopMatch(r.Body)
		if err != nil {
			criticalError = err
			return
		}
		coords = c
	})

	collector.OnError(func(r *colly.Response, err error) {
		searchLogger.Warn("Geocoding request failed", port.Fields{
			"status": r.StatusCode,
			"error":  err.Error(),
		})
		criticalError = fmt.Errorf("nominatim: status %d: %w", r.StatusCode, err)
	})

	visitErr := collector.Visit(a.searchURL(query))
	collector.Wait()

	if criticalError != nil {
		return nil, criticalError
	}
	if visitErr != nil {
		return nil, fmt.Errorf("nominatim: request failed: %w", visitErr)
	}
	if coords == nil {
		return nil, domain.ErrNoGeocodeMatch
	}
	return coords, nil
}

func (a *GeocoderAdapter) searchURL(query string) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")
	return a.baseURL + "/search?" + params.Encode()
}

func parseTopMatch(body []byte) (*domain.Coordinates, error) {
	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("nominatim: unexpected response: %w", err)
	}
	if len(results) == 0 {
		return nil, domain.ErrNoGeocodeMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim: bad longitude %q: %w", results[0].Lon, err)
	}

	c := &domain.Coordinates{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return nil, domain.ErrNoGeocodeMatch
	}
	return c, nil
}
