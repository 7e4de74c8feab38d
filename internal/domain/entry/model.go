// Package entry holds dated, per-template tracking records.
package entry

import "time"

// Entry is one dated record of values conforming to a template. Values is
// keyed by field id; value shapes are dictated by the referenced field's
// type. Keys that do not match a template field are permitted but ignored by
// rendering.
type Entry struct {
	ID         string
	UserID     string
	TemplateID string
	// Date is a calendar date in YYYY-MM-DD form, no time component.
	Date      string
	Values    map[string]any
	CreatedAt time.Time
}
