package database

import (
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"library_backend/internals/configs"
	authorModel "library_backend/internals/features/library/authors/model"
	bookModel "library_backend/internals/features/library/books/model"
	receiptModel "library_backend/internals/features/library/receipts/model"
	studentModel "library_backend/internals/features/library/students/model"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ConnectDB opens the store selected by cfg.DBDriver. The returned handle is shared
// by every request; callers pass it down explicitly.
func ConnectDB(cfg configs.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         configs.NewGormLogger(cfg.DBLogLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case DriverSQLite:
		log.Printf("[DB] opening sqlite file %s", cfg.DBPath)
		db, err = OpenSQLite(cfg.DBPath, gormCfg)
	case DriverPostgres, "":
		dsn, dsnErr := cfg.PostgresDSN()
		if dsnErr != nil {
			return nil, dsnErr
		}
		log.Printf("[DB] connecting to postgres %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log.Println("[DB] connected")
	return db, nil
}

// OpenSQLite opens a sqlite file with foreign keys enforced.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}
	// a single writer avoids SQLITE_BUSY between pooled connections
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func TunePool(db *gorm.DB) {
	if db.Dialector.Name() != DriverPostgres {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("[DB] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates the four library tables when absent, plus the partial unique
// index that allows at most one outstanding receipt per (book, student).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&authorModel.AuthorModel{},
		&bookModel.BookModel{},
		&studentModel.StudentModel{},
		&receiptModel.ReceivingBookModel{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_receiving_books_outstanding
		ON receiving_books (book_id, student_id) WHERE date_of_return IS NULL`).Error; err != nil {
		return fmt.Errorf("create outstanding receipt index: %w", err)
	}
	return nil
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
