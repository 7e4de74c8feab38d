// Package template holds the tracking template aggregate: a named, ordered
// set of typed field definitions that entries are logged against.
package template

import "time"

// FieldType enumerates the value domains a field can declare.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldSelect FieldType = "select"
	FieldRating FieldType = "rating"
)

// IsValid checks if the field type is one of the allowed values.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldText, FieldNumber, FieldDate, FieldSelect, FieldRating:
		return true
	}
	return false
}

// Field is one typed slot within a template. Options are meaningful only for
// select fields. Field order within a template is user-controlled and
// preserved.
type Field struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required,omitempty"`
}

// Template is a user-defined schema describing what a tracking entry records.
type Template struct {
	ID        string
	UserID    string
	Name      string
	Goal      *string
	Fields    []Field
	CreatedAt time.Time
}

// FieldByID returns the field with the given id, or nil.
func (t *Template) FieldByID(id string) *Field {
	for i := range t.Fields {
		if t.Fields[i].ID == id {
			return &t.Fields[i]
		}
	}
	return nil
}
