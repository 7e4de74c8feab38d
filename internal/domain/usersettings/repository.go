package usersettings

import "context"

// Repository exposes data access for user settings.
type Repository interface {
	// FindByUserID returns (nil, nil) when no row exists yet.
	FindByUserID(ctx context.Context, userID string) (*UserSettings, error)
	// Upsert inserts or updates the single settings row keyed by user id.
	Upsert(ctx context.Context, settings *UserSettings) (*UserSettings, error)
}
