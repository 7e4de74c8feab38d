package templaterepo

import (
	"context"
	"sort"
	"sync"

	"tracker-api/internal/domain/template"
	"tracker-api/internal/utils/platformerrors"
)

// InMemoryRepository is a map-backed template.Repository used in tests and
// local development.
type InMemoryRepository struct {
	mu        sync.RWMutex
	templates map[string]template.Template
}

var _ template.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{templates: make(map[string]template.Template)}
}

func (r *InMemoryRepository) ListByUser(ctx context.Context, userID string) ([]template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var templates []template.Template
	for _, t := range r.templates {
		if t.UserID == userID {
			templates = append(templates, t)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].CreatedAt.After(templates[j].CreatedAt)
	})
	return templates, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, userID, id string) (*template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[id]
	if !ok || t.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "template not found", nil, "")
	}
	copied := t
	return &copied, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, tmpl *template.Template) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates[tmpl.ID] = *tmpl
	copied := *tmpl
	return &copied, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, tmpl *template.Template) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.templates[tmpl.ID]
	if !ok || existing.UserID != tmpl.UserID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "template not found", nil, "")
	}
	updated := *tmpl
	updated.CreatedAt = existing.CreatedAt
	r.templates[tmpl.ID] = updated
	copied := updated
	return &copied, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.templates[id]
	if !ok || t.UserID != userID {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "template not found", nil, "")
	}
	delete(r.templates, id)
	return nil
}
