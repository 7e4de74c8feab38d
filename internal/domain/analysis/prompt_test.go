package analysis

import (
	"strings"
	"testing"

	"tracker-api/internal/domain/entry"
	"tracker-api/internal/domain/template"
)

func sleepTemplate(goal *string) *template.Template {
	return &template.Template{
		ID:     "tmpl_sleep",
		UserID: "user-1",
		Name:   "Sleep",
		Goal:   goal,
		Fields: []template.Field{
			{ID: "fld_hours", Name: "Hours", Type: template.FieldNumber},
			{ID: "fld_quality", Name: "Quality", Type: template.FieldRating},
		},
	}
}

// Entries ordered date descending, the way the entry store returns them.
func sleepEntries() []entry.Entry {
	return []entry.Entry{
		{ID: "ent_3", TemplateID: "tmpl_sleep", Date: "2024-01-03", Values: map[string]any{"fld_hours": 8.0, "fld_quality": float64(5)}},
		{ID: "ent_2", TemplateID: "tmpl_sleep", Date: "2024-01-02", Values: map[string]any{"fld_hours": 6.5, "fld_quality": float64(3)}},
		{ID: "ent_1", TemplateID: "tmpl_sleep", Date: "2024-01-01", Values: map[string]any{"fld_hours": 4.0, "fld_quality": float64(1)}},
	}
}

func TestBuildMessagesShape(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "earlier question"},
		{Role: RoleAssistant, Content: "earlier answer"},
	}

	messages, err := BuildMessages(sleepTemplate(nil), sleepEntries(), history, "how did I sleep?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(messages))
	}
	if messages[0].Role != RoleSystem || messages[1].Role != RoleSystem {
		t.Error("first two messages must be system messages")
	}
	if messages[2] != history[0] || messages[3] != history[1] {
		t.Error("history must be carried through unmodified")
	}
	last := messages[len(messages)-1]
	if last.Role != RoleUser || last.Content != "how did I sleep?" {
		t.Errorf("query must come last, got %+v", last)
	}
}

func TestBuildMessagesDeterministic(t *testing.T) {
	goal := "sleep 8 hours a night"
	tmpl := sleepTemplate(&goal)
	entries := sleepEntries()
	history := []Message{{Role: RoleUser, Content: "hi"}, {Role: RoleAssistant, Content: "hello"}}

	first, err := BuildMessages(tmpl, entries, history, "any trends?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildMessages(tmpl, entries, history, "any trends?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("message counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("message %d differs between identical invocations:\n%q\nvs\n%q",
				i, first[i].Content, second[i].Content)
		}
	}
}

func TestDataContextContents(t *testing.T) {
	messages, err := BuildMessages(sleepTemplate(nil), sleepEntries(), nil, "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dataContext := messages[1].Content

	for _, want := range []string{
		"Template: Sleep",
		"Number of entries: 3",
		"Date range: 2024-01-01 to 2024-01-03",
		`"Excellent"`,
		`"Average"`,
		`"Poor"`,
	} {
		if !strings.Contains(dataContext, want) {
			t.Errorf("data context missing %q:\n%s", want, dataContext)
		}
	}

	// Raw numeric shapes survive for non-rating fields.
	if !strings.Contains(dataContext, "6.5") {
		t.Errorf("data context should carry the raw hours value:\n%s", dataContext)
	}
}

func TestDataContextSkipsUnknownFieldIDs(t *testing.T) {
	entries := []entry.Entry{
		{ID: "ent_1", TemplateID: "tmpl_sleep", Date: "2024-01-01",
			Values: map[string]any{"fld_hours": 7.0, "fld_gone": "orphaned"}},
	}

	messages, err := BuildMessages(sleepTemplate(nil), entries, nil, "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(messages[1].Content, "orphaned") {
		t.Errorf("value with no matching field leaked into the context:\n%s", messages[1].Content)
	}
}

func TestSystemPromptGoalSuffix(t *testing.T) {
	withoutGoal, err := BuildMessages(sleepTemplate(nil), sleepEntries(), nil, "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(withoutGoal[0].Content, "goal") {
		t.Error("system prompt should not mention a goal when the template has none")
	}

	goal := "sleep 8 hours a night"
	withGoal, err := BuildMessages(sleepTemplate(&goal), sleepEntries(), nil, "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(withGoal[0].Content, `"sleep 8 hours a night"`) {
		t.Errorf("system prompt missing goal sentence:\n%s", withGoal[0].Content)
	}
	if !strings.Contains(withGoal[1].Content, "Goal: sleep 8 hours a night") {
		t.Errorf("data context missing goal line:\n%s", withGoal[1].Content)
	}
}

func TestBuildMessagesRejectsBadRating(t *testing.T) {
	entries := []entry.Entry{
		{ID: "ent_1", TemplateID: "tmpl_sleep", Date: "2024-01-01",
			Values: map[string]any{"fld_quality": float64(9)}},
	}
	if _, err := BuildMessages(sleepTemplate(nil), entries, nil, "q"); err == nil {
		t.Error("expected error for out-of-range stored rating")
	}
}
