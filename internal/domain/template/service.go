package template

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tracker-api/internal/utils/idgen"
	"tracker-api/internal/utils/platformerrors"
)

// CreateParams carries the user-supplied attributes for a new template. A
// template with zero fields is legal.
type CreateParams struct {
	Name   string
	Goal   *string
	Fields []Field
}

// UpdateParams replaces only the supplied attributes. A nil Fields slice
// keeps the existing field set; an empty non-nil slice clears it.
type UpdateParams struct {
	Name   *string
	Goal   *string
	Fields []Field
}

// Service describes the business logic surface for the template catalog.
type Service interface {
	List(ctx context.Context, userID string) ([]Template, error)
	Get(ctx context.Context, userID, id string) (*Template, error)
	Create(ctx context.Context, userID string, params CreateParams) (*Template, error)
	Update(ctx context.Context, userID, id string, params UpdateParams) (*Template, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService wires the template service with its repository.
func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{
		repo: repo,
		log:  log.With().Str("component", "template-service").Logger(),
	}
}

func (s *service) List(ctx context.Context, userID string) ([]Template, error) {
	if userID == "" {
		return nil, errAuthRequired(ctx)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, id string) (*Template, error) {
	if userID == "" {
		return nil, errAuthRequired(ctx)
	}
	return s.repo.FindByID(ctx, userID, id)
}

func (s *service) Create(ctx context.Context, userID string, params CreateParams) (*Template, error) {
	if userID == "" {
		return nil, errAuthRequired(ctx)
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "template name must not be empty", nil, "")
	}

	fields, err := normalizeFields(ctx, params.Fields)
	if err != nil {
		return nil, err
	}

	tmpl := &Template{
		ID:        idgen.MustGenerateSecureID(idgen.PrefixTemplate, 16),
		UserID:    userID,
		Name:      strings.TrimSpace(params.Name),
		Goal:      params.Goal,
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, tmpl)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("create template")
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, userID, id string, params UpdateParams) (*Template, error) {
	if userID == "" {
		return nil, errAuthRequired(ctx)
	}

	tmpl, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation, "template name must not be empty", nil, "")
		}
		tmpl.Name = strings.TrimSpace(*params.Name)
	}
	if params.Goal != nil {
		tmpl.Goal = params.Goal
	}
	if params.Fields != nil {
		fields, err := normalizeFields(ctx, params.Fields)
		if err != nil {
			return nil, err
		}
		tmpl.Fields = fields
	}

	updated, err := s.repo.Update(ctx, tmpl)
	if err != nil {
		s.log.Error().Err(err).Str("template_id", id).Msg("update template")
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return errAuthRequired(ctx)
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.log.Error().Err(err).Str("template_id", id).Msg("delete template")
		return err
	}
	return nil
}

// normalizeFields assigns ids to new fields and enforces the template
// invariants: valid types, non-empty names, unique field ids.
func normalizeFields(ctx context.Context, fields []Field) ([]Field, error) {
	normalized := make([]Field, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation, "field name must not be empty", nil, "")
		}
		if !f.Type.IsValid() {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation, "unknown field type", nil, "",
				map[string]any{"field": f.Name, "type": string(f.Type)})
		}
		if f.Type == FieldSelect {
			if len(f.Options) == 0 {
				return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
					platformerrors.ErrorTypeValidation, "select field requires at least one option", nil, "",
					map[string]any{"field": f.Name})
			}
		} else {
			f.Options = nil
		}
		if f.ID == "" {
			f.ID = idgen.MustGenerateSecureID(idgen.PrefixField, 12)
		}
		if _, dup := seen[f.ID]; dup {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation, "duplicate field id within template", nil, "",
				map[string]any{"field_id": f.ID})
		}
		seen[f.ID] = struct{}{}
		f.Name = strings.TrimSpace(f.Name)
		normalized = append(normalized, f)
	}

	return normalized, nil
}

func errAuthRequired(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain,
		platformerrors.ErrorTypeUnauthorized, "authenticated identity required", nil, "")
}
