package template_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tracker-api/internal/domain/template"
	"tracker-api/internal/infrastructure/repository/templaterepo"
	"tracker-api/internal/utils/platformerrors"
)

const testUser = "user-1"

func newService() template.Service {
	return template.NewService(templaterepo.NewInMemoryRepository(), zerolog.Nop())
}

func TestCreateAssignsFieldIDs(t *testing.T) {
	svc := newService()

	tmpl, err := svc.Create(context.Background(), testUser, template.CreateParams{
		Name: "Exercise",
		Fields: []template.Field{
			{Name: "Duration", Type: template.FieldNumber},
			{Name: "Intensity", Type: template.FieldRating, Required: true},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(tmpl.ID, "tmpl_") {
		t.Errorf("template id = %q, want tmpl_ prefix", tmpl.ID)
	}
	for _, f := range tmpl.Fields {
		if !strings.HasPrefix(f.ID, "fld_") {
			t.Errorf("field %q id = %q, want fld_ prefix", f.Name, f.ID)
		}
	}
	if !tmpl.Fields[1].Required {
		t.Error("required flag lost on create")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	cases := []struct {
		name   string
		params template.CreateParams
	}{
		{
			name:   "empty name",
			params: template.CreateParams{Name: "   "},
		},
		{
			name: "empty field name",
			params: template.CreateParams{Name: "T", Fields: []template.Field{
				{Name: " ", Type: template.FieldText},
			}},
		},
		{
			name: "unknown field type",
			params: template.CreateParams{Name: "T", Fields: []template.Field{
				{Name: "F", Type: "checkbox"},
			}},
		},
		{
			name: "select without options",
			params: template.CreateParams{Name: "T", Fields: []template.Field{
				{Name: "Mood", Type: template.FieldSelect},
			}},
		},
		{
			name: "duplicate field ids",
			params: template.CreateParams{Name: "T", Fields: []template.Field{
				{ID: "fld_dup", Name: "A", Type: template.FieldText},
				{ID: "fld_dup", Name: "B", Type: template.FieldText},
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, testUser, tc.params)
			if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateZeroFieldsIsLegal(t *testing.T) {
	svc := newService()

	tmpl, err := svc.Create(context.Background(), testUser, template.CreateParams{Name: "Notes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tmpl.Fields) != 0 {
		t.Errorf("expected no fields, got %d", len(tmpl.Fields))
	}
}

func TestCreateStripsOptionsFromNonSelect(t *testing.T) {
	svc := newService()

	tmpl, err := svc.Create(context.Background(), testUser, template.CreateParams{
		Name: "T",
		Fields: []template.Field{
			{Name: "N", Type: template.FieldNumber, Options: []string{"stale"}},
			{Name: "S", Type: template.FieldSelect, Options: []string{"a", "b"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.Fields[0].Options != nil {
		t.Error("options must be stripped from non-select fields")
	}
	if len(tmpl.Fields[1].Options) != 2 {
		t.Error("select options must be kept")
	}
}

func TestUpdateKeepsFieldsWhenAbsent(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	tmpl, err := svc.Create(ctx, testUser, template.CreateParams{
		Name: "T",
		Fields: []template.Field{
			{Name: "A", Type: template.FieldText},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Renamed"
	updated, err := svc.Update(ctx, testUser, tmpl.ID, template.UpdateParams{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("name = %q", updated.Name)
	}
	if len(updated.Fields) != 1 || updated.Fields[0].Name != "A" {
		t.Errorf("fields must survive a name-only update, got %+v", updated.Fields)
	}

	// An explicit empty slice clears the field set.
	updated, err = svc.Update(ctx, testUser, tmpl.ID, template.UpdateParams{Fields: []template.Field{}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Fields) != 0 {
		t.Errorf("expected cleared fields, got %+v", updated.Fields)
	}
}

func TestListScopedToUser(t *testing.T) {
	repo := templaterepo.NewInMemoryRepository()
	svc := template.NewService(repo, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, testUser, template.CreateParams{Name: "Mine"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "user-2", template.CreateParams{Name: "Theirs"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	templates, err := svc.List(ctx, testUser)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(templates) != 1 || templates[0].Name != "Mine" {
		t.Errorf("list = %+v", templates)
	}
}

func TestGetDeleteNotFoundAcrossUsers(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	tmpl, err := svc.Create(ctx, testUser, template.CreateParams{Name: "Mine"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "user-2", tmpl.ID); !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not-found for foreign user get, got %v", err)
	}
	if err := svc.Delete(ctx, "user-2", tmpl.ID); !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not-found for foreign user delete, got %v", err)
	}
	if _, err := svc.Get(ctx, testUser, tmpl.ID); err != nil {
		t.Errorf("owner get failed: %v", err)
	}
}
