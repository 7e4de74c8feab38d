//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tracker-api/internal/config"
	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/domain/entry"
	"tracker-api/internal/domain/template"
	"tracker-api/internal/domain/usersettings"
	"tracker-api/internal/infrastructure/auth"
	"tracker-api/internal/infrastructure/database"
	"tracker-api/internal/infrastructure/inference"
	"tracker-api/internal/infrastructure/logger"
	"tracker-api/internal/infrastructure/repository/analysisrepo"
	"tracker-api/internal/infrastructure/repository/entryrepo"
	"tracker-api/internal/infrastructure/repository/settingsrepo"
	"tracker-api/internal/infrastructure/repository/templaterepo"
	"tracker-api/internal/interfaces/httpserver"
)

var repositorySet = wire.NewSet(
	templaterepo.NewPostgresRepository,
	wire.Bind(new(template.Repository), new(*templaterepo.PostgresRepository)),
	entryrepo.NewPostgresRepository,
	wire.Bind(new(entry.Repository), new(*entryrepo.PostgresRepository)),
	analysisrepo.NewPostgresRepository,
	wire.Bind(new(analysis.Repository), new(*analysisrepo.PostgresRepository)),
	settingsrepo.NewPostgresRepository,
	wire.Bind(new(usersettings.Repository), new(*settingsrepo.PostgresRepository)),
)

var domainSet = wire.NewSet(
	template.NewService,
	entry.NewService,
	usersettings.NewService,
	analysis.NewSessionManager,
	analysis.NewService,
)

// BuildApplication assembles the tracking service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		newChatClient,
		repositorySet,
		domainSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(cfg database.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newChatClient(cfg *config.Config) analysis.ChatClient {
	return inference.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.LLMTimeout)
}
