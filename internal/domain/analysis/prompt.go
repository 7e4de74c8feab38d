package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"tracker-api/internal/domain/entry"
	"tracker-api/internal/domain/fieldvalue"
	"tracker-api/internal/domain/template"
)

// systemPrompt describes the assistant's role. The wording is part of the
// product behavior; change it deliberately.
const systemPrompt = "You are a data analysis assistant integrated within a personal tracking application. " +
	"Users input diverse data through customized tracking templates, covering activities such as sleep patterns, " +
	"exercise, diet, mood, and social interactions. Your primary function is to analyze this logged data, identify " +
	"meaningful patterns, correlations, and trends, and provide insightful, actionable feedback and tailored " +
	"recommendations. Always interpret user data thoughtfully, clearly explaining your insights and suggestions in " +
	"an empathetic, encouraging, and supportive manner. When providing recommendations, consider the users " +
	"historical data and context to ensure relevance and personalization."

const goalPrompt = " The user has set a goal for this template: %q. Keep your analysis and recommendations oriented toward progress against that goal."

// fieldDatum pairs a field name with its rendered value in the data block.
// Non-rating values keep their raw JSON shape; ratings become labels.
type fieldDatum struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type entryDatum struct {
	Date   string       `json:"date"`
	Values []fieldDatum `json:"values"`
}

// BuildMessages assembles the full message sequence for one analysis turn:
// the system instruction, a second system message carrying the data context,
// the prior conversation unmodified, and the user query last.
//
// Assembly is deterministic: identical template, entries, history, and query
// always produce a byte-identical sequence. Entries must already be ordered
// by date descending, so the earliest date is the last element and the latest
// is the first.
func BuildMessages(tmpl *template.Template, entries []entry.Entry, history []Message, query string) ([]Message, error) {
	dataContext, err := buildDataContext(tmpl, entries)
	if err != nil {
		return nil, err
	}

	system := systemPrompt
	if tmpl.Goal != nil && strings.TrimSpace(*tmpl.Goal) != "" {
		system += fmt.Sprintf(goalPrompt, strings.TrimSpace(*tmpl.Goal))
	}

	messages := make([]Message, 0, len(history)+3)
	messages = append(messages,
		Message{Role: RoleSystem, Content: system},
		Message{Role: RoleSystem, Content: dataContext},
	)
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: query})
	return messages, nil
}

// buildDataContext serializes the entry set into the grounded context block:
// template name, optional goal, entry count, date range, and the rendered
// data as indented JSON. Values follow template field order; value keys
// without a matching field are ignored.
func buildDataContext(tmpl *template.Template, entries []entry.Entry) (string, error) {
	data := make([]entryDatum, 0, len(entries))
	for _, e := range entries {
		values := make([]fieldDatum, 0, len(tmpl.Fields))
		for _, f := range tmpl.Fields {
			raw, ok := e.Values[f.ID]
			if !ok {
				continue
			}
			rendered, err := renderForContext(f, raw)
			if err != nil {
				return "", err
			}
			values = append(values, fieldDatum{Field: f.Name, Value: rendered})
		}
		data = append(data, entryDatum{Date: e.Date, Values: values})
	}

	serialized, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Template: %s\n", tmpl.Name)
	if tmpl.Goal != nil && strings.TrimSpace(*tmpl.Goal) != "" {
		fmt.Fprintf(&b, "Goal: %s\n", strings.TrimSpace(*tmpl.Goal))
	}
	fmt.Fprintf(&b, "Number of entries: %d\n", len(entries))
	if len(entries) > 0 {
		earliest := entries[len(entries)-1].Date
		latest := entries[0].Date
		fmt.Fprintf(&b, "Date range: %s to %s\n", earliest, latest)
	}
	b.WriteString("\nData:\n")
	b.Write(serialized)
	return b.String(), nil
}

// renderForContext keeps the raw JSON shape for every type except rating,
// which is mapped onto its label with the range guarded.
func renderForContext(f template.Field, raw any) (any, error) {
	if f.Type != template.FieldRating {
		return raw, nil
	}
	v, err := fieldvalue.Parse(f, raw)
	if err != nil {
		return nil, err
	}
	return v.Display(), nil
}
