package dbschema

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"tracker-api/internal/domain/entry"
	"tracker-api/internal/domain/fieldvalue"
	"tracker-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Entry{})
}

// Entry is the database schema for the entries table. The template FK
// cascades on delete: removing a template removes its entries.
type Entry struct {
	BaseModel
	PublicID         string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID           string     `gorm:"type:varchar(64);index;not null"`
	TemplateID       uint       `gorm:"index;not null"`
	Template         Template   `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	TemplatePublicID string     `gorm:"type:varchar(50);index:idx_entries_template_date;not null"`
	EntryDate        time.Time  `gorm:"type:date;index:idx_entries_template_date;not null"`
	Values           ValuesJSON `gorm:"type:jsonb;not null"`
}

// TableName specifies the table name for Entry.
func (Entry) TableName() string {
	return "tracking.entries"
}

// ValuesJSON stores the field-id keyed value map as jsonb.
type ValuesJSON map[string]any

func (j ValuesJSON) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	return json.Marshal(j)
}

func (j *ValuesJSON) Scan(value any) error {
	if value == nil {
		*j = make(map[string]any)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, j)
}

// NewSchemaEntry converts the domain model to its database schema. The
// numeric template key is resolved by the repository.
func NewSchemaEntry(e *entry.Entry, templateID uint) (*Entry, error) {
	date, err := time.Parse(fieldvalue.DateLayout, e.Date)
	if err != nil {
		return nil, fmt.Errorf("parse entry date: %w", err)
	}
	return &Entry{
		BaseModel: BaseModel{
			CreatedAt: e.CreatedAt,
		},
		PublicID:         e.ID,
		UserID:           e.UserID,
		TemplateID:       templateID,
		TemplatePublicID: e.TemplateID,
		EntryDate:        date,
		Values:           ValuesJSON(e.Values),
	}, nil
}

// EtoD converts the database schema to the domain model.
func (e *Entry) EtoD() *entry.Entry {
	return &entry.Entry{
		ID:         e.PublicID,
		UserID:     e.UserID,
		TemplateID: e.TemplatePublicID,
		Date:       e.EntryDate.Format(fieldvalue.DateLayout),
		Values:     map[string]any(e.Values),
		CreatedAt:  e.CreatedAt,
	}
}
