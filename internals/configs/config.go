package configs

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds every runtime knob of the service. Values come from the
// environment (optionally seeded by a .env file).
type Config struct {
	Env  string
	Port string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBAutoMigrate bool

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	LibraryFinePerDay        int64
	ActivityLogRetentionDays int
	AttendanceCron           string
	RetentionCron            string
	OverdueReminderCron      string

	SendgridAPIKey string
	MailFromName   string
	MailFromEmail  string

	RollbarToken string

	MidtransServerKey string
	MidtransUseProd   bool
}

var conf *viper.Viper

// =======================
// ENV LOADER
// =======================
func LoadEnv() *Config {
	if strings.ToLower(os.Getenv("APP_ENV")) != "production" {
		if err := godotenv.Load(); err != nil {
			logrus.Info("no .env file found, using system environment")
		} else {
			logrus.Info(".env file loaded")
		}
	}

	conf = viper.New()
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("APP_ENV", "development")
	conf.SetDefault("PORT", "3000")
	conf.SetDefault("DB_HOST", "localhost")
	conf.SetDefault("DB_PORT", "5432")
	conf.SetDefault("DB_SSLMODE", "disable")
	conf.SetDefault("DB_AUTOMIGRATE", false)
	conf.SetDefault("JWT_TTL", 24*time.Hour)
	conf.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	conf.SetDefault("LIBRARY_FINE_PER_DAY", int64(5))
	conf.SetDefault("ACTIVITY_LOG_RETENTION_DAYS", 180)
	conf.SetDefault("ATTENDANCE_CRON", "0 18 * * *")
	conf.SetDefault("RETENTION_CRON", "30 2 * * *")
	conf.SetDefault("OVERDUE_REMINDER_CRON", "0 7 * * *")
	conf.SetDefault("MAIL_FROM_NAME", "School Office")
	conf.SetDefault("MAIL_FROM", "noreply@localhost")
	conf.SetDefault("MIDTRANS_USE_PROD", false)
	conf.AutomaticEnv()

	cfg := &Config{
		Env:                      conf.GetString("APP_ENV"),
		Port:                     conf.GetString("PORT"),
		DBHost:                   conf.GetString("DB_HOST"),
		DBPort:                   conf.GetString("DB_PORT"),
		DBUser:                   conf.GetString("DB_USER"),
		DBPassword:               conf.GetString("DB_PASSWORD"),
		DBName:                   conf.GetString("DB_NAME"),
		DBSSLMode:                conf.GetString("DB_SSLMODE"),
		DBAutoMigrate:            conf.GetBool("DB_AUTOMIGRATE"),
		JWTSecret:                conf.GetString("JWT_SECRET"),
		JWTTTL:                   conf.GetDuration("JWT_TTL"),
		CORSOrigins:              splitCSV(conf.GetString("CORS_ORIGINS")),
		LibraryFinePerDay:        conf.GetInt64("LIBRARY_FINE_PER_DAY"),
		ActivityLogRetentionDays: conf.GetInt("ACTIVITY_LOG_RETENTION_DAYS"),
		AttendanceCron:           conf.GetString("ATTENDANCE_CRON"),
		RetentionCron:            conf.GetString("RETENTION_CRON"),
		OverdueReminderCron:      conf.GetString("OVERDUE_REMINDER_CRON"),
		SendgridAPIKey:           conf.GetString("SENDGRID_API_KEY"),
		MailFromName:             conf.GetString("MAIL_FROM_NAME"),
		MailFromEmail:            conf.GetString("MAIL_FROM"),
		RollbarToken:             conf.GetString("ROLLBAR_TOKEN"),
		MidtransServerKey:        conf.GetString("MIDTRANS_SERVER_KEY"),
		MidtransUseProd:          conf.GetBool("MIDTRANS_USE_PROD"),
	}

	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET is not set")
	}
	if cfg.MidtransServerKey == "" {
		logrus.Warn("MIDTRANS_SERVER_KEY is not set, online fee payment disabled")
	}
	return cfg
}

func (c *Config) IsProduction() bool { return strings.EqualFold(c.Env, "production") }

// DSN builds the postgres connection string used by gorm and the migrator.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=schoolms",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
