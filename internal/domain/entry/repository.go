package entry

import "context"

// Repository exposes identity-scoped data access for entries.
type Repository interface {
	// ListByTemplate returns the template's entries ordered by date
	// descending.
	ListByTemplate(ctx context.Context, userID, templateID string) ([]Entry, error)
	FindByID(ctx context.Context, userID, id string) (*Entry, error)
	Create(ctx context.Context, e *Entry) (*Entry, error)
	Update(ctx context.Context, e *Entry) (*Entry, error)
	Delete(ctx context.Context, userID, id string) error
}
