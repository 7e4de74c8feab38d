package usersettings

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"tracker-api/internal/utils/platformerrors"
)

// UpdateParams replaces only the supplied attributes.
type UpdateParams struct {
	OpenAIAPIKey *string
	OpenAIModel  *string
}

// Service describes the business logic surface for user settings.
type Service interface {
	// GetOrCreate returns the identity's settings, lazily creating the row
	// with the default model and an empty credential on first access.
	GetOrCreate(ctx context.Context, userID string) (*UserSettings, error)
	Update(ctx context.Context, userID string, params UpdateParams) (*UserSettings, error)
}

type service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService wires the settings service with its repository.
func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{
		repo: repo,
		log:  log.With().Str("component", "usersettings-service").Logger(),
	}
}

func (s *service) GetOrCreate(ctx context.Context, userID string) (*UserSettings, error) {
	if userID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnauthorized, "authenticated identity required", nil, "")
	}

	settings, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	created, err := s.repo.Upsert(ctx, &UserSettings{
		UserID:      userID,
		OpenAIModel: DefaultModel,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("user_id", userID).Msg("created default user settings")
	return created, nil
}

func (s *service) Update(ctx context.Context, userID string, params UpdateParams) (*UserSettings, error) {
	settings, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.OpenAIAPIKey != nil {
		settings.OpenAIAPIKey = strings.TrimSpace(*params.OpenAIAPIKey)
	}
	if params.OpenAIModel != nil {
		model := strings.TrimSpace(*params.OpenAIModel)
		if !IsSupportedModel(model) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation,
				fmt.Sprintf("unsupported model %q, expected one of %s", model, strings.Join(SupportedModels, ", ")),
				nil, "")
		}
		settings.OpenAIModel = model
	}

	return s.repo.Upsert(ctx, settings)
}
