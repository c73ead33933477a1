package service

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"gorm.io/gorm"

	database "library_backend/internals/databases"
	bookModel "library_backend/internals/features/library/books/model"
	studentModel "library_backend/internals/features/library/students/model"
	"library_backend/internals/helpers/apperr"
)

// PopularMinAverageScore: only loans of students above this average count toward popularity.
const PopularMinAverageScore = 4

type BooksService struct {
	db *gorm.DB
}

func NewBooksService(db *gorm.DB) *BooksService {
	return &BooksService{db: db}
}

// ListBooks returns the whole catalog; an empty catalog is NotFound.
func (s *BooksService) ListBooks(ctx context.Context) ([]bookModel.BookModel, error) {
	var books []bookModel.BookModel
	if err := s.db.WithContext(ctx).Order("book_id ASC").Find(&books).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if len(books) == 0 {
		return nil, apperr.NotFound("There are no books in the library")
	}
	return books, nil
}

// FindBooksByTitle is a case-sensitive substring match on the title; the empty string
// matches every title. No match is an empty slice.
func (s *BooksService) FindBooksByTitle(ctx context.Context, title string) ([]bookModel.BookModel, error) {
	books := []bookModel.BookModel{}
	q := s.db.WithContext(ctx)
	if err := q.Where(database.ContainsExpr(q, "books.name"), title).
		Order("book_id ASC").
		Find(&books).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return books, nil
}

// MostPopularBook ranks books by receipts of students whose average score is above
// PopularMinAverageScore; ties go to the book with more copies.
func (s *BooksService) MostPopularBook(ctx context.Context) (*bookModel.BookWithCount, error) {
	var rows []bookModel.BookWithCount
	err := s.db.WithContext(ctx).
		Table("receiving_books").
		Select("books.book_id, books.name, books.count, books.release_date, books.author_id, COUNT(receiving_books.receipt_id) AS rec_count").
		Joins("JOIN students ON students.student_id = receiving_books.student_id").
		Joins("JOIN books ON books.book_id = receiving_books.book_id").
		Where("students.average_score > ?", PopularMinAverageScore).
		Group("books.book_id, books.name, books.count, books.release_date, books.author_id").
		Order("rec_count DESC").
		Order("books.count DESC").
		Order("books.book_id ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("There are no books in the library yet")
	}
	return &rows[0], nil
}

// RecommendationsForStudent suggests books by authors the student already borrowed
// from, excluding every title the student has borrowed.
func (s *BooksService) RecommendationsForStudent(ctx context.Context, studentID uint) ([]bookModel.BookModel, error) {
	db := s.db.WithContext(ctx)

	var student studentModel.StudentModel
	if err := db.Select("student_id").First(&student, "student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, apperr.ErrStudentNotFound, "There is no student with this ID")
		}
		return nil, apperr.Internal(err)
	}

	borrowed := func() *gorm.DB {
		return db.Table("receiving_books").
			Joins("JOIN books AS rb ON rb.book_id = receiving_books.book_id").
			Where("receiving_books.student_id = ?", studentID)
	}
	authorIDs := borrowed().Select("rb.author_id")
	titles := borrowed().Select("rb.name")

	var books []bookModel.BookModel
	if err := db.Model(&bookModel.BookModel{}).
		Where("books.author_id IN (?)", authorIDs).
		Where("books.name NOT IN (?)", titles).
		Order("books.book_id ASC").
		Find(&books).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if len(books) == 0 {
		return nil, apperr.NotFound("There are no recommendations for this student yet")
	}
	log.Printf("[BOOKS][RECOMMEND] student_id=%d found=%d", studentID, len(books))
	return books, nil
}

// SumOfCopiesByAuthor adds up the copies of every book by the author. ok is false
// when the author has no books.
func (s *BooksService) SumOfCopiesByAuthor(ctx context.Context, authorID uint) (sum int64, ok bool, err error) {
	var total sql.NullInt64
	if err := s.db.WithContext(ctx).
		Model(&bookModel.BookModel{}).
		Select("SUM(books.count)").
		Where("books.author_id = ?", authorID).
		Row().Scan(&total); err != nil {
		return 0, false, apperr.Internal(err)
	}
	if !total.Valid {
		return 0, false, nil
	}
	return total.Int64, true, nil
}
