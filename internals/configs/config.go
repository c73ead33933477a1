package configs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Config holds everything main needs to wire the service.
type Config struct {
	Port string

	DBDriver   string
	DBURL      string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string
	DBPath     string
	DBLogLevel string

	Timezone  *time.Location
	UploadDir string

	SeedOnStart bool

	DebtorsDays            int
	DebtorsOutstandingOnly bool
	DebtorsReportCron      string

	CorsAllowOrigins string
	RateLimitMax     int
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] .env not found, using system environment")
	} else {
		log.Println("[CONFIG] .env loaded")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(GetEnv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[CONFIG] %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(GetEnv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[CONFIG] %s=%q is not a bool, using %v", key, v, def)
		return def
	}
	return b
}

// Load reads the environment into a Config. Call LoadEnv first to pick up .env.
func Load() Config {
	tzName := GetEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("[CONFIG] unknown APP_TIMEZONE %q, falling back to UTC", tzName)
		loc = time.UTC
	}

	cfg := Config{
		Port: GetEnv("PORT", "8080"),

		DBDriver:   strings.ToLower(GetEnv("DB_DRIVER", "postgres")),
		DBURL:      strings.TrimSpace(GetEnv("DATABASE_URL")),
		DBUser:     GetEnv("DB_USER"),
		DBPassword: GetEnv("DB_PASSWORD"),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBName:     GetEnv("DB_NAME", "library"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "disable"),
		DBPath:     GetEnv("DB_PATH", "library.db"),
		DBLogLevel: strings.ToLower(GetEnv("DB_LOG_LEVEL", "warn")),

		Timezone:  loc,
		UploadDir: GetEnv("UPLOAD_DIR", "downloads"),

		SeedOnStart: getEnvBool("SEED_ON_START", true),

		DebtorsDays:            getEnvInt("DEBTORS_DAYS", 14),
		DebtorsOutstandingOnly: getEnvBool("DEBTORS_OUTSTANDING_ONLY", false),
		DebtorsReportCron:      GetEnv("DEBTORS_REPORT_CRON", "0 9 * * *"),

		CorsAllowOrigins: GetEnv("CORS_ALLOW_ORIGINS", "*"),
		RateLimitMax:     getEnvInt("RATE_LIMIT_MAX", 100),
	}

	if _, set := os.LookupEnv("DEBTORS_REPORT_CRON"); set && strings.TrimSpace(os.Getenv("DEBTORS_REPORT_CRON")) == "" {
		cfg.DebtorsReportCron = ""
	}

	if cfg.DBDriver == "postgres" && cfg.DBURL == "" && cfg.DBUser == "" {
		log.Println("[CONFIG] DB_USER is not set")
	}
	return cfg
}

// PostgresURL is DATABASE_URL when set, otherwise a URL assembled from the DB_* parts.
func (c Config) PostgresURL() string {
	if c.DBURL != "" {
		return c.DBURL
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	q.Set("application_name", "library")
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// PostgresDSN converts PostgresURL into a key/value connection string.
// A URL with a non-postgres scheme is rejected.
func (c Config) PostgresDSN() (string, error) {
	dsn, err := pq.ParseURL(c.PostgresURL())
	if err != nil {
		return "", fmt.Errorf("DATABASE_URL: %w", err)
	}
	return dsn, nil
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger(level string) gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      ParseGormLogLevel(level),
	}
}

func ParseGormLogLevel(level string) gormLogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		sql, rows := fc()
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", utils.FileWithLineNum(), err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		sql, rows := fc()
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", utils.FileWithLineNum(), elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		sql, rows := fc()
		log.Printf("[QUERY] %s | %s | %d rows | %s", utils.FileWithLineNum(), elapsed, rows, sql)
	}
}
