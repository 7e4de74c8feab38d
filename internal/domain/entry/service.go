package entry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tracker-api/internal/domain/fieldvalue"
	"tracker-api/internal/domain/template"
	"tracker-api/internal/utils/idgen"
	"tracker-api/internal/utils/platformerrors"
)

// CreateParams carries the user-supplied attributes for a new entry.
type CreateParams struct {
	TemplateID string
	Date       string
	Values     map[string]any
}

// UpdateParams replaces only the supplied attributes. A nil Values map keeps
// the stored values; a non-nil map replaces them wholesale.
type UpdateParams struct {
	Date   *string
	Values map[string]any
}

// Service describes the business logic surface for the entry store.
type Service interface {
	ListByTemplate(ctx context.Context, userID, templateID string) ([]Entry, error)
	Create(ctx context.Context, userID string, params CreateParams) (*Entry, error)
	Update(ctx context.Context, userID, id string, params UpdateParams) (*Entry, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	repo      Repository
	templates template.Repository
	log       zerolog.Logger
}

// NewService wires the entry service with its repositories.
func NewService(repo Repository, templates template.Repository, log zerolog.Logger) Service {
	return &service{
		repo:      repo,
		templates: templates,
		log:       log.With().Str("component", "entry-service").Logger(),
	}
}

func (s *service) ListByTemplate(ctx context.Context, userID, templateID string) ([]Entry, error) {
	if userID == "" {
		return nil, errAuthRequired(ctx)
	}
	return s.repo.ListByTemplate(ctx, userID, templateID)
}

func (s *service) Create(ctx context.Context, userID string, params CreateParams) (*Entry, error) {
	if userID == "" {
		return nil, errAuthRequired(ctx)
	}

	tmpl, err := s.templates.FindByID(ctx, userID, params.TemplateID)
	if err != nil {
		return nil, err
	}

	date, err := normalizeDate(ctx, params.Date)
	if err != nil {
		return nil, err
	}

	values := params.Values
	if values == nil {
		values = map[string]any{}
	}
	if err := validateValues(tmpl, values); err != nil {
		return nil, err
	}

	e := &Entry{
		ID:         idgen.MustGenerateSecureID(idgen.PrefixEntry, 16),
		UserID:     userID,
		TemplateID: tmpl.ID,
		Date:       date,
		Values:     values,
		CreatedAt:  time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		s.log.Error().Err(err).Str("template_id", tmpl.ID).Msg("create entry")
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, userID, id string, params UpdateParams) (*Entry, error) {
	if userID == "" {
		return nil, errAuthRequired(ctx)
	}

	e, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Date != nil {
		date, err := normalizeDate(ctx, *params.Date)
		if err != nil {
			return nil, err
		}
		e.Date = date
	}
	if params.Values != nil {
		tmpl, err := s.templates.FindByID(ctx, userID, e.TemplateID)
		if err != nil {
			return nil, err
		}
		if err := validateValues(tmpl, params.Values); err != nil {
			return nil, err
		}
		e.Values = params.Values
	}

	updated, err := s.repo.Update(ctx, e)
	if err != nil {
		s.log.Error().Err(err).Str("entry_id", id).Msg("update entry")
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return errAuthRequired(ctx)
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.log.Error().Err(err).Str("entry_id", id).Msg("delete entry")
		return err
	}
	return nil
}

// validateValues checks the value map against every field the template
// declares: required fields must be present and valid, present values must
// parse under their field's type. Keys without a matching field pass through
// untouched.
func validateValues(tmpl *template.Template, values map[string]any) error {
	for _, f := range tmpl.Fields {
		raw, present := values[f.ID]
		if !present {
			raw = nil
		}
		if err := fieldvalue.Validate(f, raw); err != nil {
			return err
		}
	}
	return nil
}

func normalizeDate(ctx context.Context, raw string) (string, error) {
	d, err := time.Parse(fieldvalue.DateLayout, raw)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "entry date must be a valid YYYY-MM-DD calendar date", err, "")
	}
	return d.Format(fieldvalue.DateLayout), nil
}

func errAuthRequired(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain,
		platformerrors.ErrorTypeUnauthorized, "authenticated identity required", nil, "")
}
