package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"library_backend/internals/helpers/apperr"
)

func Test_ClassifyDBError(t *testing.T) {
	for name, tc := range map[string]struct {
		err  error
		want DBErrorClass
	}{
		"nil":             {nil, DBErrOther},
		"gorm duplicated": {gorm.ErrDuplicatedKey, DBErrUnique},
		"gorm fk":         {fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated), DBErrForeignKey},
		"pgx unique":      {&pgconn.PgError{Code: "23505"}, DBErrUnique},
		"pgx check":       {&pgconn.PgError{Code: "23514"}, DBErrCheck},
		"pgx fk":          {fmt.Errorf("create: %w", &pgconn.PgError{Code: "23503"}), DBErrForeignKey},
		"sqlite unique":   {errors.New("constraint failed: UNIQUE constraint failed: students.email (2067)"), DBErrUnique},
		"sqlite check":    {errors.New("CHECK constraint failed: chk_books_count_non_negative"), DBErrCheck},
		"other":           {errors.New("connection refused"), DBErrOther},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyDBError(tc.err))
		})
	}

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}

func Test_StatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(apperr.Validation("x")))
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(apperr.Conflict("x")))
	assert.Equal(t, fiber.StatusNotFound, StatusFor(apperr.NotFound("x")))
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(fiber.NewError(fiber.StatusBadRequest, "x")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(errors.New("x")))
}

func Test_NormalizeName(t *testing.T) {
	assert.Equal(t, "Анна Мария", NormalizeName("  Анна \t Мария "))
	// decomposed "й" composes to the single code point
	assert.Equal(t, "Андре\u0439", NormalizeName("Андре\u0438\u0306"))
}

type sample struct {
	BookID uint     `form:"book_id" validate:"required,gt=0"`
	Score  *float64 `json:"average_score" validate:"required,gte=0"`
}

func Test_ValidateStruct(t *testing.T) {
	v := NewValidator()
	score := 4.0

	require.NoError(t, ValidateStruct(v, &sample{BookID: 1, Score: &score}))

	err := ValidateStruct(v, &sample{})
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "missing required argument: 'book_id'")
	assert.Contains(t, err.Error(), "missing required argument: 'average_score'")

	negative := -1.0
	err = ValidateStruct(v, &sample{BookID: 1, Score: &negative})
	assert.EqualError(t, err, "'average_score' must be at least 0")
}
