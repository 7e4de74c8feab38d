package entry_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"tracker-api/internal/domain/entry"
	"tracker-api/internal/domain/fieldvalue"
	"tracker-api/internal/domain/template"
	"tracker-api/internal/infrastructure/repository/entryrepo"
	"tracker-api/internal/infrastructure/repository/templaterepo"
	"tracker-api/internal/utils/platformerrors"
)

const testUser = "user-1"

func newFixture(t *testing.T) (entry.Service, *template.Template) {
	t.Helper()
	log := zerolog.Nop()
	templateRepo := templaterepo.NewInMemoryRepository()
	templateService := template.NewService(templateRepo, log)
	entryService := entry.NewService(entryrepo.NewInMemoryRepository(), templateRepo, log)

	tmpl, err := templateService.Create(context.Background(), testUser, template.CreateParams{
		Name: "Sleep",
		Fields: []template.Field{
			{ID: "fld_hours", Name: "Hours", Type: template.FieldNumber, Required: true},
			{ID: "fld_quality", Name: "Quality", Type: template.FieldRating},
		},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	return entryService, tmpl
}

func TestCreateRequiresTemplate(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), testUser, entry.CreateParams{
		TemplateID: "tmpl_missing",
		Date:       "2024-01-01",
		Values:     map[string]any{"fld_hours": 7.0},
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCreateValidatesDate(t *testing.T) {
	svc, tmpl := newFixture(t)

	for _, date := range []string{"", "01/02/2024", "2024-13-01", "2024-02-30"} {
		_, err := svc.Create(context.Background(), testUser, entry.CreateParams{
			TemplateID: tmpl.ID,
			Date:       date,
			Values:     map[string]any{"fld_hours": 7.0},
		})
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
			t.Errorf("date %q: expected validation error, got %v", date, err)
		}
	}
}

func TestCreateEnforcesRequiredFields(t *testing.T) {
	svc, tmpl := newFixture(t)

	_, err := svc.Create(context.Background(), testUser, entry.CreateParams{
		TemplateID: tmpl.ID,
		Date:       "2024-01-01",
		Values:     map[string]any{"fld_quality": float64(4)},
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error for missing required field, got %v", err)
	}
}

func TestCreatePassesUnknownKeysThrough(t *testing.T) {
	svc, tmpl := newFixture(t)

	created, err := svc.Create(context.Background(), testUser, entry.CreateParams{
		TemplateID: tmpl.ID,
		Date:       "2024-01-01",
		Values: map[string]any{
			"fld_hours":  7.0,
			"fld_orphan": "left over from a removed field",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := created.Values["fld_orphan"]; !ok {
		t.Error("unknown key must be stored untouched")
	}
}

func TestListOrderedByDateDescending(t *testing.T) {
	svc, tmpl := newFixture(t)
	ctx := context.Background()

	// Insert out of order on purpose.
	for _, e := range []struct {
		date    string
		quality float64
	}{
		{"2024-01-02", 3},
		{"2024-01-03", 5},
		{"2024-01-01", 1},
	} {
		if _, err := svc.Create(ctx, testUser, entry.CreateParams{
			TemplateID: tmpl.ID,
			Date:       e.date,
			Values:     map[string]any{"fld_hours": 7.0, "fld_quality": e.quality},
		}); err != nil {
			t.Fatalf("create %s: %v", e.date, err)
		}
	}

	entries, err := svc.ListByTemplate(ctx, testUser, tmpl.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	wantDates := []string{"2024-01-03", "2024-01-02", "2024-01-01"}
	wantLabels := []string{"Excellent", "Average", "Poor"}
	qualityField := tmpl.Fields[1]

	for i, e := range entries {
		if e.Date != wantDates[i] {
			t.Errorf("entry %d date = %s, want %s", i, e.Date, wantDates[i])
		}
		label, err := fieldvalue.Render(qualityField, e.Values[qualityField.ID])
		if err != nil {
			t.Fatalf("render quality: %v", err)
		}
		if label != wantLabels[i] {
			t.Errorf("entry %d quality label = %q, want %q", i, label, wantLabels[i])
		}
	}
}

func TestUpdateReplacesValuesWholesale(t *testing.T) {
	svc, tmpl := newFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUser, entry.CreateParams{
		TemplateID: tmpl.ID,
		Date:       "2024-01-01",
		Values:     map[string]any{"fld_hours": 7.0, "fld_quality": float64(4)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, testUser, created.ID, entry.UpdateParams{
		Values: map[string]any{"fld_hours": 8.0},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := updated.Values["fld_quality"]; ok {
		t.Error("values replacement must drop keys not in the new map")
	}

	// Replacement is revalidated: dropping the required field fails.
	_, err = svc.Update(ctx, testUser, created.ID, entry.UpdateParams{
		Values: map[string]any{"fld_quality": float64(2)},
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateDateOnly(t *testing.T) {
	svc, tmpl := newFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUser, entry.CreateParams{
		TemplateID: tmpl.ID,
		Date:       "2024-01-01",
		Values:     map[string]any{"fld_hours": 7.0},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newDate := "2024-01-05"
	updated, err := svc.Update(ctx, testUser, created.ID, entry.UpdateParams{Date: &newDate})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Date != newDate {
		t.Errorf("date = %s, want %s", updated.Date, newDate)
	}
	if updated.Values["fld_hours"] != 7.0 {
		t.Error("values must survive a date-only update")
	}
}

func TestDelete(t *testing.T) {
	svc, tmpl := newFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUser, entry.CreateParams{
		TemplateID: tmpl.ID,
		Date:       "2024-01-01",
		Values:     map[string]any{"fld_hours": 6.0},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, testUser, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, testUser, created.ID); !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not-found on second delete, got %v", err)
	}
}
