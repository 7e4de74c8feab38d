package dbschema

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"tracker-api/internal/domain/template"
	"tracker-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Template{})
}

// Template is the database schema for the templates table. Fields are
// embedded by value as an ordered jsonb array; they are not separately
// addressable rows.
type Template struct {
	BaseModel
	PublicID string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID   string     `gorm:"type:varchar(64);index:idx_templates_user_created;not null"`
	Name     string     `gorm:"type:varchar(256);not null"`
	Goal     *string    `gorm:"type:text"`
	Fields   FieldsJSON `gorm:"type:jsonb;not null"`
}

// TableName specifies the table name for Template.
func (Template) TableName() string {
	return "tracking.templates"
}

// FieldsJSON stores the ordered field definitions as jsonb.
type FieldsJSON []template.Field

func (j FieldsJSON) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	return json.Marshal(j)
}

func (j *FieldsJSON) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, j)
}

// NewSchemaTemplate converts the domain model to its database schema.
func NewSchemaTemplate(t *template.Template) *Template {
	return &Template{
		BaseModel: BaseModel{
			CreatedAt: t.CreatedAt,
		},
		PublicID: t.ID,
		UserID:   t.UserID,
		Name:     t.Name,
		Goal:     t.Goal,
		Fields:   FieldsJSON(t.Fields),
	}
}

// EtoD converts the database schema to the domain model.
func (t *Template) EtoD() *template.Template {
	return &template.Template{
		ID:        t.PublicID,
		UserID:    t.UserID,
		Name:      t.Name,
		Goal:      t.Goal,
		Fields:    []template.Field(t.Fields),
		CreatedAt: t.CreatedAt,
	}
}
