package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"net/http"
	"strconv"
	"strings"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// writeUseCaseError переводит доменную ошибку в HTTP-статус.
// action - глагол для сообщения, например "update listing".
func writeUseCaseError(w http.ResponseWriter, logger port.LoggerPort, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.Warn("Listing not found", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusNotFound, "Listing not found")
	case errors.Is(err, domain.ErrAuthenticationRequired), errors.Is(err, domain.ErrTokenInvalid):
		logger.Warn("Authentication required", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		logger.Warn("Access denied", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidPayload):
		logger.Warn("Invalid payload", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUpstreamFailure):
		logger.Error("Record store failure", err, port.Fields{"action": action})
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Failed to %s: %s", action, upstreamMessage(err)))
	default:
		logger.Error("Unexpected use case error", err, port.Fields{"action": action})
		WriteJSONError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// upstreamMessage отрезает префикс sentinel-ошибки, клиенту нужно только сообщение хранилища.
func upstreamMessage(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrUpstreamFailure.Error()+": ")
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidPayload, key)
	}
	return v, nil
}

func queryFloatPtr(r *http.Request, key string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidPayload, key)
	}
	return &v, nil
}

func queryIntPtr(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidPayload, key)
	}
	return &v, nil
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// parseViewport разбирает bbox=minLon,minLat,maxLon,maxLat (порядок как у Leaflet toBBoxString).
func parseViewport(raw string) (*domain.Viewport, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: bbox must be minLon,minLat,maxLon,maxLat", domain.ErrInvalidPayload)
	}
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bbox must contain numbers", domain.ErrInvalidPayload)
		}
		values[i] = v
	}
	v := &domain.Viewport{MinLon: values[0], MinLat: values[1], MaxLon: values[2], MaxLat: values[3]}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}
