// Package testutil opens throwaway sqlite stores and fills them with a small,
// fully known library for service and handler tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	database "library_backend/internals/databases"
	authorModel "library_backend/internals/features/library/authors/model"
	bookModel "library_backend/internals/features/library/books/model"
	receiptModel "library_backend/internals/features/library/receipts/model"
	studentModel "library_backend/internals/features/library/students/model"
)

// Now is the fixed instant tests run "at".
var Now = time.Date(2024, time.July, 20, 12, 0, 0, 0, time.UTC)

func Clock() time.Time { return Now }

// NewDB returns a migrated sqlite store in t's temp dir.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "library.db"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

type Library struct {
	Tolstoy, Chekhov, Austen authorModel.AuthorModel

	WarAndPeace, AnnaKarenina, WhatMenLiveBy bookModel.BookModel
	Chameleon, Boys                          bookModel.BookModel
	PrideAndPrejudice                        bookModel.BookModel

	// Alice and Bob are above the popularity cut, Carol is not.
	Alice, Bob, Carol studentModel.StudentModel
}

// SeedLibrary inserts three authors, six books and three students. No receipts.
func SeedLibrary(t *testing.T, db *gorm.DB) *Library {
	t.Helper()
	l := &Library{
		Tolstoy: authorModel.AuthorModel{AuthorName: "Лев", AuthorSurname: "Толстой"},
		Chekhov: authorModel.AuthorModel{AuthorName: "Антон", AuthorSurname: "Чехов"},
		Austen:  authorModel.AuthorModel{AuthorName: "Джейн", AuthorSurname: "Остин"},
	}
	for _, a := range []*authorModel.AuthorModel{&l.Tolstoy, &l.Chekhov, &l.Austen} {
		require.NoError(t, db.Create(a).Error)
	}

	l.WarAndPeace = Book(t, db, "Война и мир", 3, 1867, l.Tolstoy.AuthorID)
	l.AnnaKarenina = Book(t, db, "Анна Каренина", 5, 1873, l.Tolstoy.AuthorID)
	l.WhatMenLiveBy = Book(t, db, "Чем люди живы", 2, 1885, l.Tolstoy.AuthorID)
	l.Chameleon = Book(t, db, "Хамелеон", 4, 1884, l.Chekhov.AuthorID)
	l.Boys = Book(t, db, "Мальчики", 1, 1887, l.Chekhov.AuthorID)
	l.PrideAndPrejudice = Book(t, db, "Гордость и предубеждение", 6, 1813, l.Austen.AuthorID)

	l.Alice = Student(t, db, "Alice", "Smith", "+79000000001", "alice@example.com", 4.8, true)
	l.Bob = Student(t, db, "Bob", "Brown", "+79000000002", "bob@example.com", 4.5, false)
	l.Carol = Student(t, db, "Carol", "White", "+79000000003", "carol@example.com", 3.2, true)
	return l
}

func Book(t *testing.T, db *gorm.DB, name string, count, year int, authorID uint) bookModel.BookModel {
	t.Helper()
	b := bookModel.BookModel{
		BookName:        name,
		BookCount:       count,
		BookReleaseDate: datatypes.Date(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),
		BookAuthorID:    authorID,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func Student(t *testing.T, db *gorm.DB, name, surname, phone, email string, avg float64, scholarship bool) studentModel.StudentModel {
	t.Helper()
	s := studentModel.StudentModel{
		StudentName:         name,
		StudentSurname:      surname,
		StudentPhone:        phone,
		StudentEmail:        email,
		StudentAverageScore: avg,
		StudentScholarship:  scholarship,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

// Receipt inserts a receipt directly. returned may be nil for an outstanding loan.
func Receipt(t *testing.T, db *gorm.DB, bookID, studentID uint, issued time.Time, returned *time.Time) receiptModel.ReceivingBookModel {
	t.Helper()
	r := receiptModel.ReceivingBookModel{
		ReceiptBookID:    bookID,
		ReceiptStudentID: studentID,
		DateOfIssue:      issued.UTC(),
	}
	if returned != nil {
		ret := returned.UTC()
		r.DateOfReturn = &ret
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

// DaysAgo is Now minus d days.
func DaysAgo(d int) time.Time { return Now.AddDate(0, 0, -d) }

func Ptr[T any](v T) *T { return &v }
