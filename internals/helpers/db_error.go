package helper

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

type DBErrorClass int

const (
	DBErrOther DBErrorClass = iota
	DBErrUnique
	DBErrForeignKey
	DBErrCheck
)

// ClassifyDBError recognises constraint violations from pgx, gorm's translated
// errors and sqlite messages.
func ClassifyDBError(err error) DBErrorClass {
	if err == nil {
		return DBErrOther
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return DBErrUnique
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return DBErrForeignKey
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return DBErrCheck
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPGCode(pgErr.Code)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return DBErrUnique
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return DBErrForeignKey
	case strings.Contains(msg, "CHECK constraint failed"):
		return DBErrCheck
	}
	return DBErrOther
}

func classifyPGCode(code string) DBErrorClass {
	switch code {
	case pgUniqueViolation:
		return DBErrUnique
	case pgForeignKeyViolation:
		return DBErrForeignKey
	case pgCheckViolation:
		return DBErrCheck
	default:
		return DBErrOther
	}
}

func IsUniqueViolation(err error) bool { return ClassifyDBError(err) == DBErrUnique }

func IsForeignKeyViolation(err error) bool { return ClassifyDBError(err) == DBErrForeignKey }
