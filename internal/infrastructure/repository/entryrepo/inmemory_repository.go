package entryrepo

import (
	"context"
	"sort"
	"sync"

	"tracker-api/internal/domain/entry"
	"tracker-api/internal/utils/platformerrors"
)

// InMemoryRepository is a map-backed entry.Repository used in tests and
// local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]entry.Entry
}

var _ entry.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{entries: make(map[string]entry.Entry)}
}

func (r *InMemoryRepository) ListByTemplate(ctx context.Context, userID, templateID string) ([]entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []entry.Entry
	for _, e := range r.entries {
		if e.UserID == userID && e.TemplateID == templateID {
			entries = append(entries, e)
		}
	}
	// Dates use the lexically sortable YYYY-MM-DD layout.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, userID, id string) (*entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "entry not found", nil, "")
	}
	copied := e
	return &copied, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, e *entry.Entry) (*entry.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[e.ID] = *e
	copied := *e
	return &copied, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, e *entry.Entry) (*entry.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[e.ID]
	if !ok || existing.UserID != e.UserID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "entry not found", nil, "")
	}
	updated := *e
	updated.CreatedAt = existing.CreatedAt
	r.entries[e.ID] = updated
	copied := updated
	return &copied, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "entry not found", nil, "")
	}
	delete(r.entries, id)
	return nil
}
