// Package fieldvalue maps a field's declared type to its accepted value
// domain and its human-readable rendering. It is pure and stateless: parsing
// turns a raw JSON-decoded value into a tagged variant, rendering turns the
// variant into display text (ratings become labels, everything else passes
// through).
package fieldvalue

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"tracker-api/internal/domain/template"
	"tracker-api/internal/utils/platformerrors"
)

// RatingLabels are the fixed display labels for rating values 1..5.
var RatingLabels = [5]string{"Poor", "Below average", "Average", "Above average", "Excellent"}

// DateLayout is the canonical calendar-date form, no time component.
const DateLayout = "2006-01-02"

// Value is the tagged variant for a parsed field value. Exactly one concrete
// type exists per field type, so rendering can match exhaustively instead of
// switching on untyped data.
type Value interface {
	fieldValue()
	Display() string
}

// TextValue is a free-form string value.
type TextValue string

// NumberValue is a numeric value.
type NumberValue float64

// DateValue is a calendar date in canonical YYYY-MM-DD form.
type DateValue string

// SelectValue is one of a field's declared option strings.
type SelectValue string

// RatingValue is an integer rating in [1,5].
type RatingValue int

func (TextValue) fieldValue()   {}
func (NumberValue) fieldValue() {}
func (DateValue) fieldValue()   {}
func (SelectValue) fieldValue() {}
func (RatingValue) fieldValue() {}

func (v TextValue) Display() string { return string(v) }

func (v NumberValue) Display() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

func (v DateValue) Display() string   { return string(v) }
func (v SelectValue) Display() string { return string(v) }

// Display maps the rating onto its label. The value is range-checked at
// parse time, so a well-formed RatingValue can always be labelled; a
// hand-built out-of-range value falls back to the bare number rather than
// indexing out of bounds.
func (v RatingValue) Display() string {
	if v < 1 || v > 5 {
		return strconv.Itoa(int(v))
	}
	return RatingLabels[v-1]
}

// RatingLabel returns the display label for a rating, guarding the range.
func RatingLabel(rating int) (string, error) {
	if rating < 1 || rating > 5 {
		return "", validationError(fmt.Sprintf("rating must be an integer between 1 and 5, got %d", rating))
	}
	return RatingLabels[rating-1], nil
}

// Parse converts a raw value (as decoded from JSON) into the tagged variant
// declared by the field's type. It returns a VALIDATION error for any value
// outside the field's domain.
func Parse(field template.Field, raw any) (Value, error) {
	switch field.Type {
	case template.FieldText:
		s, ok := asString(raw)
		if !ok {
			return nil, fieldError(field, "expected a string value")
		}
		return TextValue(s), nil

	case template.FieldNumber:
		n, ok := asNumber(raw)
		if !ok {
			return nil, fieldError(field, "expected a numeric value")
		}
		return NumberValue(n), nil

	case template.FieldDate:
		s, ok := asString(raw)
		if !ok {
			return nil, fieldError(field, "expected a date string")
		}
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return nil, fieldError(field, fmt.Sprintf("%q is not a valid calendar date", s))
		}
		return DateValue(d.Format(DateLayout)), nil

	case template.FieldSelect:
		s, ok := asString(raw)
		if !ok {
			return nil, fieldError(field, "expected a string value")
		}
		if len(field.Options) > 0 && !containsOption(field.Options, s) {
			return nil, fieldError(field, fmt.Sprintf("%q is not one of the declared options", s))
		}
		return SelectValue(s), nil

	case template.FieldRating:
		n, ok := asNumber(raw)
		if !ok || n != math.Trunc(n) {
			return nil, fieldError(field, "rating must be an integer")
		}
		r := int(n)
		if r < 1 || r > 5 {
			return nil, fieldError(field, fmt.Sprintf("rating must be between 1 and 5, got %d", r))
		}
		return RatingValue(r), nil
	}

	return nil, fieldError(field, fmt.Sprintf("unsupported field type %q", field.Type))
}

// Validate checks a raw value against the field's declared domain, including
// the required flag. A required field rejects absent, nil, and empty-string
// input.
func Validate(field template.Field, raw any) error {
	if isEmpty(raw) {
		if field.Required {
			return fieldError(field, "value is required")
		}
		return nil
	}
	_, err := Parse(field, raw)
	return err
}

// Render converts a raw stored value into its display form: rating integers
// become their labels, all other types render unchanged.
func Render(field template.Field, raw any) (string, error) {
	v, err := Parse(field, raw)
	if err != nil {
		return "", err
	}
	return v.Display(), nil
}

// isEmpty reports whether raw counts as "no input" for required checks.
func isEmpty(raw any) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return s == ""
	}
	return false
}

func asString(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

// asNumber accepts the numeric shapes JSON decoding can produce, plus numeric
// strings the way the original form input delivered them.
func asNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func containsOption(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}

func fieldError(field template.Field, msg string) error {
	return platformerrors.NewErrorWithContext(context.Background(), platformerrors.LayerDomain,
		platformerrors.ErrorTypeValidation, msg, nil, "",
		map[string]any{"field_id": field.ID, "field": field.Name, "type": string(field.Type)})
}

func validationError(msg string) error {
	return platformerrors.NewError(context.Background(), platformerrors.LayerDomain,
		platformerrors.ErrorTypeValidation, msg, nil, "")
}
