package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"listing-service/internal/contextkeys"
	"listing-service/internal/contracts"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	maxBodyBytes   = 1 << 20
	defaultPerPage = 20
	maxPerPage     = 100
)

// PropertyHandlers - обработчики /api/v1/properties.
type PropertyHandlers struct {
	listUC    usecases_port.ListPropertiesUseCasePort
	getUC     usecases_port.GetPropertyUseCasePort
	createUC  usecases_port.CreatePropertyUseCasePort
	updateUC  usecases_port.UpdatePropertyUseCasePort
	validator *contracts.Validator
}

func NewPropertyHandlers(
	listUC usecases_port.ListPropertiesUseCasePort,
	getUC usecases_port.GetPropertyUseCasePort,
	createUC usecases_port.CreatePropertyUseCasePort,
	updateUC usecases_port.UpdatePropertyUseCasePort,
	validator *contracts.Validator,
) *PropertyHandlers {
	return &PropertyHandlers{
		listUC:    listUC,
		getUC:     getUC,
		createUC:  createUC,
		updateUC:  updateUC,
		validator: validator,
	}
}

// ListProperties обрабатывает GET /api/v1/properties
func (h *PropertyHandlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListProperties"})
	caller := contextkeys.CallerFromContext(r.Context())

	query, page, perPage, err := parseListQuery(r)
	if err != nil {
		logger.Warn("Invalid list query", port.Fields{"error": err.Error(), "query": r.URL.RawQuery})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"page": page, "per_page": perPage, "mine": query.MineOnly})
	handlerLogger.Info("Processing request to list properties", nil)

	result, err := h.listUC.Execute(r.Context(), caller, query)
	if err != nil {
		writeUseCaseError(w, handlerLogger, "list listings", err)
		return
	}

	response := PaginatedPropertiesResponse{
		Data:    make([]PropertyResponse, len(result.Properties)),
		Total:   result.TotalCount,
		Page:    result.CurrentPage,
		PerPage: result.ItemsPerPage,
	}
	for i := range result.Properties {
		response.Data[i] = toPropertyResponse(&result.Properties[i], caller)
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// GetProperty обрабатывает GET /api/v1/properties/{documentID}
func (h *PropertyHandlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":     "GetProperty",
		"document_id": documentID,
	})
	caller := contextkeys.CallerFromContext(r.Context())

	property, err := h.getUC.Execute(r.Context(), caller, documentID)
	if err != nil {
		writeUseCaseError(w, logger, "get listing", err)
		return
	}

	RespondWithJSON(w, http.StatusOK, SinglePropertyResponse{Data: toPropertyResponse(property, caller)})
}

// CreateProperty обрабатывает POST /api/v1/properties
func (h *PropertyHandlers) CreateProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateProperty"})
	caller := contextkeys.CallerFromContext(r.Context())

	payload, err := h.decodePayload(w, r, contracts.PropertyCreateV1)
	if err != nil {
		writeUseCaseError(w, logger, "create listing", err)
		return
	}

	property, err := h.createUC.Execute(r.Context(), caller, payload)
	if err != nil {
		writeUseCaseError(w, logger, "create listing", err)
		return
	}

	logger.Info("Listing created", port.Fields{"document_id": property.DocumentID})
	RespondWithJSON(w, http.StatusCreated, SinglePropertyResponse{Data: toPropertyResponse(property, caller)})
}

// UpdateProperty обрабатывает PUT и PATCH /api/v1/properties/{documentID}.
// Оба метода - частичное обновление: переданные поля меняются, остальные остаются.
func (h *PropertyHandlers) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":     "UpdateProperty",
		"document_id": documentID,
	})
	caller := contextkeys.CallerFromContext(r.Context())

	payload, err := h.decodePayload(w, r, contracts.PropertyUpdateV1)
	if err != nil {
		writeUseCaseError(w, logger, "update listing", err)
		return
	}

	property, err := h.updateUC.Execute(r.Context(), caller, documentID, payload)
	if err != nil {
		writeUseCaseError(w, logger, "update listing", err)
		return
	}

	logger.Info("Listing updated", port.Fields{"status": property.Status})
	RespondWithJSON(w, http.StatusOK, SinglePropertyResponse{Data: toPropertyResponse(property, caller)})
}

// decodePayload проверяет тело по схеме и переводит его в доменный payload.
func (h *PropertyHandlers) decodePayload(w http.ResponseWriter, r *http.Request, contract string) (domain.PropertyPayload, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.PropertyPayload{}, fmt.Errorf("%w: request body is too large", domain.ErrInvalidPayload)
		}
		return domain.PropertyPayload{}, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	if err := h.validator.Validate(contract, body); err != nil {
		return domain.PropertyPayload{}, err
	}

	var req PropertyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return domain.PropertyPayload{}, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	return req.Data.toPayload()
}

// parseListQuery разбирает фильтры и пагинацию из query string.
func parseListQuery(r *http.Request) (domain.ListQuery, int, int, error) {
	q := r.URL.Query()
	var query domain.ListQuery

	page, err := queryInt(r, "page", 1)
	if err != nil {
		return query, 0, 0, err
	}
	if page < 1 {
		page = 1
	}
	perPage, err := queryInt(r, "perPage", defaultPerPage)
	if err != nil {
		return query, 0, 0, err
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	query.Limit = perPage
	query.Offset = (page - 1) * perPage

	query.MineOnly = queryBool(r, "mine")
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return query, 0, 0, err
		}
		query.StatusOverride = &status
	}

	f := &query.Filters
	f.City = strings.TrimSpace(q.Get("city"))
	f.Region = strings.TrimSpace(q.Get("region"))
	f.Neighborhood = strings.TrimSpace(q.Get("neighborhood"))
	f.Purpose = strings.TrimSpace(q.Get("purpose"))
	f.Type = strings.TrimSpace(q.Get("type"))

	if f.PriceMin, err = queryFloatPtr(r, "priceMin"); err != nil {
		return query, 0, 0, err
	}
	if f.PriceMax, err = queryFloatPtr(r, "priceMax"); err != nil {
		return query, 0, 0, err
	}
	if f.BedroomsMin, err = queryIntPtr(r, "bedroomsMin"); err != nil {
		return query, 0, 0, err
	}

	// Явный geohash важнее bbox.
	switch {
	case q.Get("geohash") != "":
		if f.GeohashPrefix, err = domain.NormalizeGeohashPrefix(q.Get("geohash")); err != nil {
			return query, 0, 0, err
		}
	case q.Get("bbox") != "":
		viewport, err := parseViewport(q.Get("bbox"))
		if err != nil {
			return query, 0, 0, err
		}
		f.GeohashPrefix = viewport.GeohashPrefix()
	}

	return query, page, perPage, nil
}

// Health обрабатывает GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
