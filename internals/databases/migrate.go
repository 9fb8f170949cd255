package database

import (
	"database/sql"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"schoolms_backend/internals/configs"
	"schoolms_backend/internals/databases/migrations"
)

// NewMigrator opens its own lib/pq connection; golang-migrate holds an
// advisory lock on it while running.
func NewMigrator(cfg *configs.Config) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, errors.Wrap(err, "open embedded migrations")
	}
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "open migration connection")
	}
	driver, err := pgmigrate.WithInstance(conn, &pgmigrate.Config{MigrationsTable: "schema_migrations"})
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "init migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, errors.Wrap(err, "init migrator")
	}
	return m, nil
}

// MigrateUp applies every pending migration. No change is not an error.
func MigrateUp(cfg *configs.Config) error {
	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate up")
	}
	v, dirty, _ := m.Version()
	logrus.WithFields(logrus.Fields{"component": "migrate", "version": v, "dirty": dirty}).Info("schema up to date")
	return nil
}
