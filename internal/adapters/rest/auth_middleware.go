package rest

import (
	"errors"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// AuthMiddleware определяет вызывающего пользователя. Запрос без учетных данных
// пропускается как анонимный, решение о доступе принимают use cases.
type AuthMiddleware struct {
	identity     port.IdentityProviderPort
	trustGateway bool
}

// NewAuthMiddleware - identity может быть nil только в режиме trustGateway.
func NewAuthMiddleware(identity port.IdentityProviderPort, trustGateway bool) *AuthMiddleware {
	return &AuthMiddleware{identity: identity, trustGateway: trustGateway}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"component": "AuthMiddleware"})

		caller, err := m.callerFromRequest(r)
		if err != nil {
			logger.Warn("Rejected credentials", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if caller == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := contextkeys.ContextWithCaller(r.Context(), caller)
		ctx = contextkeys.ContextWithLogger(ctx, contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"user_id": caller.ID}))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) callerFromRequest(r *http.Request) (*domain.Caller, error) {
	if m.trustGateway {
		userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if userID == "" {
			return nil, nil
		}
		if _, err := uuid.Parse(userID); err != nil {
			return nil, errors.New("invalid X-User-ID header format")
		}
		return &domain.Caller{ID: userID}, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, errors.New("authorization header must be a Bearer token")
	}
	if m.identity == nil {
		return nil, domain.ErrTokenInvalid
	}
	return m.identity.ValidateToken(r.Context(), strings.TrimSpace(token))
}

// RequireCaller отклоняет анонимные запросы.
func RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !contextkeys.CallerFromContext(r.Context()).IsAuthenticated() {
			WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
