package contextkeys

import (
	"context"
	"listing-service/internal/core/domain"
)

type callerKeyType struct{}

var callerKey = callerKeyType{}

// ContextWithCaller кладет в контекст пользователя, определенного auth middleware.
func ContextWithCaller(ctx context.Context, caller *domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext возвращает nil для анонимного запроса.
func CallerFromContext(ctx context.Context) *domain.Caller {
	if caller, ok := ctx.Value(callerKey).(*domain.Caller); ok {
		return caller
	}
	return nil
}
