package token_adapter

import (
	"context"
	"errors"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityProvider проверяет HS256 токены, выпущенные сервисом аутентификации.
type IdentityProvider struct {
	signingKey []byte
}

func NewIdentityProvider(signingKey string) (*IdentityProvider, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	return &IdentityProvider{signingKey: []byte(signingKey)}, nil
}

// callerClaims: user_id - document id пользователя, id - старый числовой id (может отсутствовать).
type callerClaims struct {
	UserID   string `json:"user_id"`
	LegacyID *int64 `json:"id,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (p *IdentityProvider) ValidateToken(ctx context.Context, tokenString string) (*domain.Caller, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	providerLogger := logger.WithFields(port.Fields{
		"component": "IdentityProvider",
		"method":    "ValidateToken",
	})

	token, err := jwt.ParseWithClaims(tokenString, &callerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			alg := token.Header["alg"]
			providerLogger.Warn("Unexpected signing method detected", port.Fields{"algorithm": alg})
			return nil, fmt.Errorf("unexpected signing method: %v", alg)
		}
		return p.signingKey, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			providerLogger.Debug("Token has expired", nil)
		} else {
			providerLogger.Warn("Invalid token format or signature", port.Fields{"error": err.Error()})
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*callerClaims)
	if !ok || !token.Valid {
		providerLogger.Error("Token was parsed without error, but claims type assertion failed", nil, nil)
		return nil, domain.ErrTokenInvalid
	}

	// Без стабильного id токен не подходит для проверки владения.
	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		providerLogger.Warn("Token has no user_id claim", nil)
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Caller{
		ID:       userID,
		LegacyID: claims.LegacyID,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}
