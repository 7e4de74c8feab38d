package settingsrepo

import (
	"context"
	"sync"

	"tracker-api/internal/domain/usersettings"
)

// InMemoryRepository is a map-backed usersettings.Repository used in tests
// and local development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	settings map[string]usersettings.UserSettings
}

var _ usersettings.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{settings: make(map[string]usersettings.UserSettings)}
}

func (r *InMemoryRepository) FindByUserID(ctx context.Context, userID string) (*usersettings.UserSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[userID]
	if !ok {
		return nil, nil
	}
	copied := s
	return &copied, nil
}

func (r *InMemoryRepository) Upsert(ctx context.Context, s *usersettings.UserSettings) (*usersettings.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.settings[s.UserID]; ok {
		updated := *s
		updated.CreatedAt = existing.CreatedAt
		r.settings[s.UserID] = updated
		copied := updated
		return &copied, nil
	}
	r.settings[s.UserID] = *s
	copied := *s
	return &copied, nil
}
