// Package dbschema defines the persisted representations of the tracking
// domain entities, including the jsonb codecs and the entity/domain
// converters.
package dbschema

import "time"

// BaseModel carries the surrogate key and row timestamps shared by every
// table. The API-facing identity of a record is its PublicID, never the
// numeric key.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}
