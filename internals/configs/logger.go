package configs

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// SetupLogger configures the process-wide logrus logger.
func SetupLogger(cfg *Config) {
	logrus.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		logrus.SetLevel(logrus.InfoLevel)
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	logrus.SetLevel(logrus.DebugLevel)
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	entry         *logrus.Entry
}

func NewGormLogger(level gormLogger.LogLevel) gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
		entry:         logrus.WithField("component", "gorm"),
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.entry.Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.entry.Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.entry.Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := logrus.Fields{
		"file":    utils.FileWithLineNum(),
		"elapsed": elapsed.String(),
		"rows":    rows,
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		l.entry.WithFields(fields).WithError(err).Error(sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		l.entry.WithFields(fields).Warn("slow sql: " + sql)
	case l.LogLevel >= gormLogger.Info:
		l.entry.WithFields(fields).Debug(sql)
	}
}
