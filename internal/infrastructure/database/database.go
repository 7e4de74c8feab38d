package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"tracker-api/internal/infrastructure/logger"
)

// tablePrefix namespaces every table under the tracking schema.
const tablePrefix = "tracking."

var schemaRegistry []interface{}

// RegisterSchemaForAutoMigrate queues entities for migration. dbschema files
// call this from init so the registry is complete before Connect.
func RegisterSchemaForAutoMigrate(models ...interface{}) {
	schemaRegistry = append(schemaRegistry, models...)
}

// Config holds database configuration
type Config struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        gormlogger.LogLevel
}

// Connect creates a new database connection with the given configuration
func Connect(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   tablePrefix,
			SingularTable: false,
		},
		Logger: gormlogger.Default.LogMode(cfg.LogLevel),
	})
	if err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Msg("unable to connect to database")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log := logger.GetLogger()
	log.Info().Msg("connected to database")
	return db, nil
}

// AutoMigrate creates the tracking schema and applies every registered
// entity's schema changes.
func AutoMigrate(db *gorm.DB) error {
	schemaName := tablePrefix[:len(tablePrefix)-1]
	if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s;", schemaName)).Error; err != nil {
		return fmt.Errorf("create schema %s: %w", schemaName, err)
	}

	for _, model := range schemaRegistry {
		if err := db.AutoMigrate(model); err != nil {
			log := logger.GetLogger()
			log.Error().Err(err).Msgf("failed to auto migrate schema: %T", model)
			return err
		}
	}
	return nil
}
