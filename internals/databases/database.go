package database

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"schoolms_backend/internals/configs"
)

var DB *gorm.DB

// ConnectDB opens the postgres pool and stores it in DB.
func ConnectDB(cfg *configs.Config) (*gorm.DB, error) {
	level := gormLogger.Warn
	if !cfg.IsProduction() {
		level = gormLogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	DB = db
	logrus.WithField("component", "database").Info("postgres connected")
	return db, nil
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Warn("pool tune skipped")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// WarmUp pings once in the background so the first request finds an open
// connection.
func WarmUp(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(db); err != nil {
			logrus.WithError(err).Warn("warm-up ping failed")
		}
	}()
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// AutoMigrate creates or alters every table from the gorm models. It is
// the development path; production uses cmd/migrate.
func AutoMigrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(Models()...), "auto migrate")
}
