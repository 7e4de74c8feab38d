package analysisrepo

import (
	"context"
	"sort"
	"sync"

	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/utils/platformerrors"
)

// InMemoryRepository is a map-backed analysis.Repository used in tests and
// local development.
type InMemoryRepository struct {
	mu        sync.RWMutex
	exchanges map[string]analysis.Exchange
}

var _ analysis.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{exchanges: make(map[string]analysis.Exchange)}
}

func (r *InMemoryRepository) ListByTemplate(ctx context.Context, userID, templateID string) ([]analysis.Exchange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var exchanges []analysis.Exchange
	for _, ex := range r.exchanges {
		if ex.UserID == userID && ex.TemplateID == templateID {
			exchanges = append(exchanges, ex)
		}
	}
	sort.Slice(exchanges, func(i, j int) bool {
		return exchanges[i].CreatedAt.After(exchanges[j].CreatedAt)
	})
	return exchanges, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, userID, id string) (*analysis.Exchange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ex, ok := r.exchanges[id]
	if !ok || ex.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "analysis not found", nil, "")
	}
	copied := ex
	return &copied, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, ex *analysis.Exchange) (*analysis.Exchange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exchanges[ex.ID] = *ex
	copied := *ex
	return &copied, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ex, ok := r.exchanges[id]
	if !ok || ex.UserID != userID {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "analysis not found", nil, "")
	}
	delete(r.exchanges, id)
	return nil
}
