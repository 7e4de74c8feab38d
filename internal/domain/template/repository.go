package template

import "context"

// Repository exposes identity-scoped data access for templates. Row-level
// filtering by user id is the persistence gateway's enforcement boundary; the
// domain layer passes the identity through and never filters client-side.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Template, error)
	FindByID(ctx context.Context, userID, id string) (*Template, error)
	Create(ctx context.Context, tmpl *Template) (*Template, error)
	Update(ctx context.Context, tmpl *Template) (*Template, error)
	// Delete removes the template. Entries and analysis exchanges that
	// reference it are cascade-deleted at the gateway.
	Delete(ctx context.Context, userID, id string) error
}
