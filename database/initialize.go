package database

import (
	_ "embed"
	"os"

	"blog-service/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// The embedded schema, placeholders and constraint mapping are SQLite specific
const driver = "sqlite3"

//go:embed schema.sql
var schema string

func InitializeDatabase(cfg *config.Config) *sqlx.DB {
	dbConn := db.GetDBConnection(db.DatabaseConfig{
		DRIVER: driver,
		DB:     cfg.DBDSN,
	})

	if err := ApplySchema(dbConn); err != nil {
		logger.Error("Error while applying schema", zap.Error(err))
		os.Exit(1)
	}

	if cfg.MigrationsDir != "" {
		if err := migrations.Migrate(dbConn, cfg.MigrationsDir); err != nil {
			logger.Error("Error while running migration", zap.Error(err), zap.String("dir", cfg.MigrationsDir))
			os.Exit(1)
		}
	}

	logger.Info("Database initialized successfully", zap.String("driver", driver))
	return dbConn
}

// ApplySchema creates the blog tables if they do not exist yet
func ApplySchema(dbConn *sqlx.DB) error {
	_, err := dbConn.Exec(schema)
	return err
}
