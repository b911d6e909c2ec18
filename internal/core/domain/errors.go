package domain

import "errors"

// Определяем переменные-ошибки, которые могут быть возвращены из Use Cases.
var (
	ErrNotFound               = errors.New("property not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidPayload         = errors.New("invalid payload")
	ErrUpstreamFailure        = errors.New("record store failure")
	ErrTokenInvalid           = errors.New("invalid jwt token")

	// ErrEnrichmentUnavailable никогда не возвращается наружу:
	// объявление просто сохраняется без координат.
	ErrEnrichmentUnavailable = errors.New("geocoding unavailable")
	// ErrNoGeocodeMatch - геокодер ответил, но ничего не нашел.
	ErrNoGeocodeMatch = errors.New("no geocoding match")
)
