package analysis

import (
	"context"
	"time"
)

// Exchange is a persisted (query, response) pair produced by a completed
// analysis turn. It is created only after a successful model call, never
// updated in place, and deletable independently of entries and templates.
type Exchange struct {
	ID         string
	UserID     string
	TemplateID string
	Query      string
	Response   string
	CreatedAt  time.Time
}

// Repository exposes identity-scoped data access for analysis exchanges.
type Repository interface {
	// ListByTemplate returns exchanges newest first.
	ListByTemplate(ctx context.Context, userID, templateID string) ([]Exchange, error)
	FindByID(ctx context.Context, userID, id string) (*Exchange, error)
	Create(ctx context.Context, ex *Exchange) (*Exchange, error)
	Delete(ctx context.Context, userID, id string) error
}
