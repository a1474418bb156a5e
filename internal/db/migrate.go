package db

import (
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plowline/backoffice/internal/models"
	"github.com/plowline/backoffice/internal/settings"
	"github.com/plowline/backoffice/internal/store"
)

func isPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// ConnectAndMigrate opens the database (sqlite file by default, postgres when
// given a postgres URL), migrates the schema, and seeds default settings.
// With MIGRATIONS=1 and a postgres DSN, SQL migrations from ./migrations run
// via golang-migrate instead of AutoMigrate.
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty; check the environment configuration")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var (
		db  *gorm.DB
		err error
	)
	if isPostgresDSN(dsn) {
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			time.Sleep(2 * time.Second)
		}
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	useSQLMigrations := false
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		useSQLMigrations = true
	}
	if useSQLMigrations && isPostgresDSN(dsn) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range []interface{}{
			&models.Client{}, &models.Service{}, &models.QuoteProfile{},
			&models.Quote{}, &models.Invoice{}, &models.AppSetting{},
		} {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	if err := seedDefaultSettings(db); err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	return db, nil
}

// seedDefaultSettings inserts the known settings rows when absent. Existing
// rows are left alone, so operator edits survive restarts.
func seedDefaultSettings(db *gorm.DB) error {
	st := store.New(db)
	for _, row := range settings.Defaults() {
		if err := st.SeedSetting(row); err != nil {
			return err
		}
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
