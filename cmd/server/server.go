package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"tracker-api/internal/config"
	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/domain/entry"
	"tracker-api/internal/domain/template"
	"tracker-api/internal/domain/usersettings"
	"tracker-api/internal/infrastructure/auth"
	"tracker-api/internal/infrastructure/database"
	_ "tracker-api/internal/infrastructure/database/dbschema"
	"tracker-api/internal/infrastructure/inference"
	"tracker-api/internal/infrastructure/logger"
	"tracker-api/internal/infrastructure/observability"
	"tracker-api/internal/infrastructure/repository/analysisrepo"
	"tracker-api/internal/infrastructure/repository/entryrepo"
	"tracker-api/internal/infrastructure/repository/settingsrepo"
	"tracker-api/internal/infrastructure/repository/templaterepo"
	"tracker-api/internal/interfaces/httpserver"
)

// @title Tracking API
// @version 1.0
// @description Personal tracking service: user-defined templates, dated entries, and LLM-backed analysis
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	templateRepository := templaterepo.NewPostgresRepository(db)
	entryRepository := entryrepo.NewPostgresRepository(db)
	analysisRepository := analysisrepo.NewPostgresRepository(db)
	settingsRepository := settingsrepo.NewPostgresRepository(db)

	templateService := template.NewService(templateRepository, log)
	entryService := entry.NewService(entryRepository, templateRepository, log)
	settingsService := usersettings.NewService(settingsRepository, log)

	llmClient := inference.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.LLMTimeout)
	sessionManager := analysis.NewSessionManager()
	analysisService := analysis.NewService(
		analysisRepository,
		entryService,
		templateService,
		settingsService,
		llmClient,
		sessionManager,
		log,
	)

	httpServer := httpserver.New(cfg, log, templateService, entryService, analysisService, settingsService, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
