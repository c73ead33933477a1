package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	studentModel "library_backend/internals/features/library/students/model"
	"library_backend/internals/helpers/apperr"
	"library_backend/internals/testutil"
)

func countStudents(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&studentModel.StudentModel{}).Count(&n).Error)
	return n
}

func newStudent(name, surname, phone, email string) studentModel.StudentModel {
	return studentModel.StudentModel{
		StudentName:         name,
		StudentSurname:      surname,
		StudentPhone:        phone,
		StudentEmail:        email,
		StudentAverageScore: 4.2,
	}
}

func Test_RegisterStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("normalises and stores", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := NewStudentsService(db)
		st := newStudent("  Ivan   ", " Petrov", "+79123456789", "Ivan.Petrov@Mail.RU")

		require.NoError(t, svc.RegisterStudent(ctx, &st))

		assert.NotZero(t, st.StudentID)
		got, err := svc.GetStudent(ctx, st.StudentID)
		require.NoError(t, err)
		assert.Equal(t, "Ivan", got.StudentName)
		assert.Equal(t, "Petrov", got.StudentSurname)
		assert.Equal(t, "ivan.petrov@mail.ru", got.StudentEmail)
	})

	t.Run("invalid phone is rejected before insert", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := NewStudentsService(db)
		st := newStudent("Ivan", "Petrov", "89123456789", "ivan@mail.ru")

		err := svc.RegisterStudent(ctx, &st)

		assert.True(t, apperr.IsValidation(err))
		assert.Zero(t, countStudents(t, db))
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := NewStudentsService(db)
		first := newStudent("Ivan", "Petrov", "+79123456789", "ivan@mail.ru")
		second := newStudent("Petr", "Ivanov", "+79123456780", "IVAN@mail.ru")
		require.NoError(t, svc.RegisterStudent(ctx, &first))

		err := svc.RegisterStudent(ctx, &second)

		assert.True(t, apperr.IsConflict(err))
		assert.Equal(t, int64(1), countStudents(t, db))
	})

	t.Run("duplicate name, surname and phone", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := NewStudentsService(db)
		first := newStudent("Ivan", "Petrov", "+79123456789", "ivan@mail.ru")
		second := newStudent("Ivan", "Petrov", "+79123456789", "other@mail.ru")
		require.NoError(t, svc.RegisterStudent(ctx, &first))

		err := svc.RegisterStudent(ctx, &second)

		assert.True(t, apperr.IsConflict(err))
		assert.Equal(t, int64(1), countStudents(t, db))
	})
}

func Test_BulkRegisterStudents(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts every row", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := NewStudentsService(db)
		rows := []studentModel.StudentModel{
			newStudent("Anna", "Ivanova", "+79000000011", "anna@mail.ru"),
			newStudent("Boris", "Sidorov", "+79000000012", "boris@mail.ru"),
			newStudent("Vera", "Orlova", "+79000000013", "vera@mail.ru"),
		}

		n, err := svc.BulkRegisterStudents(ctx, rows)

		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, int64(3), countStudents(t, db))
	})

	t.Run("one invalid row rejects the whole file", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := NewStudentsService(db)
		rows := []studentModel.StudentModel{
			newStudent("Anna", "Ivanova", "+79000000011", "anna@mail.ru"),
			newStudent("Boris", "Sidorov", "+79000000012", "not-an-email"),
		}

		_, err := svc.BulkRegisterStudents(ctx, rows)

		assert.True(t, apperr.IsValidation(err))
		assert.Contains(t, err.Error(), "row 2")
		assert.Zero(t, countStudents(t, db))
	})

	t.Run("collision with an existing student rolls back", func(t *testing.T) {
		db := testutil.NewDB(t)
		testutil.SeedLibrary(t, db)
		svc := NewStudentsService(db)
		rows := []studentModel.StudentModel{
			newStudent("Anna", "Ivanova", "+79000000011", "anna@mail.ru"),
			newStudent("Alice", "Smith", "+79000000099", "alice@example.com"),
		}

		_, err := svc.BulkRegisterStudents(ctx, rows)

		assert.True(t, apperr.IsConflict(err))
		assert.EqualError(t, err, "The students are already in database")
		assert.Equal(t, int64(3), countStudents(t, db))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewStudentsService(testutil.NewDB(t)).BulkRegisterStudents(ctx, nil)

		assert.True(t, apperr.IsValidation(err))
	})
}

func Test_StudentQueries(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	lib := testutil.SeedLibrary(t, db)
	svc := NewStudentsService(db)

	t.Run("scholarship holders", func(t *testing.T) {
		list, err := svc.StudentsWithScholarship(ctx)

		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, lib.Alice.StudentID, list[0].StudentID)
		assert.Equal(t, lib.Carol.StudentID, list[1].StudentID)
	})

	t.Run("above an average score", func(t *testing.T) {
		list, err := svc.StudentsByAverageScore(ctx, 4.5)

		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, lib.Alice.StudentID, list[0].StudentID)

		_, err = svc.StudentsByAverageScore(ctx, 5)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetStudent(ctx, 9999)

		assert.True(t, apperr.IsNotFound(err))
		assert.ErrorIs(t, err, apperr.ErrStudentNotFound)
	})
}

func Test_StudentQueries_EmptyScholarship(t *testing.T) {
	_, err := NewStudentsService(testutil.NewDB(t)).StudentsWithScholarship(context.Background())

	assert.True(t, apperr.IsNotFound(err))
}
