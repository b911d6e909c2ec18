package domain

import (
	"fmt"
	"strings"
)

// Status - уровень видимости объявления.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
)

// Старые названия статусов, которые еще присылает фронтенд.
var statusAliases = map[string]Status{
	"draft":     StatusDraft,
	"rascunho":  StatusDraft,
	"pending":   StatusPending,
	"pendente":  StatusPending,
	"published": StatusPublished,
	"publicado": StatusPublished,
}

// ParseStatus разбирает статус, учитывая старые португальские названия.
func ParseStatus(s string) (Status, error) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidPayload, s)
	}
	return status, nil
}

// StatusScope - какие уровни видимости должен вернуть storage.
type StatusScope string

const (
	// ScopePublished - только опубликованные объявления.
	ScopePublished StatusScope = "published"
	// ScopeAll - все уровни (draft, pending, published).
	ScopeAll StatusScope = "all"
)
