package database

import (
	"fmt"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector builds the GORM dialector for the configured driver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql", "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// GormConfig returns the GORM settings shared by the server and tests.
// Foreign keys are not created: tasks hold weak references to users.
// Timestamps are written in UTC.
func GormConfig(logLevel logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func Connect(cfg *config.Config) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}

	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	DB, err = gorm.Open(dialector, GormConfig(logLevel))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.Logger.WithField("driver", cfg.DBDriver).Info("Database connection established")
	return nil
}

// Models lists every persisted model in migration order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Task{},
		&models.TaskAssignment{},
	}
}

func Migrate() error {
	logging.Logger.Info("Running database migrations...")
	if err := DB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logging.Logger.Info("Database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
