package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "library_backend/internals/databases"
	bookModel "library_backend/internals/features/library/books/model"
	receiptModel "library_backend/internals/features/library/receipts/model"
	studentModel "library_backend/internals/features/library/students/model"
	helper "library_backend/internals/helpers"
	"library_backend/internals/helpers/apperr"
)

const (
	DefaultDebtorsDays     = 14
	MostReadingStudentsTop = 10
)

type Options struct {
	// DebtorsDays is the held-time threshold after which a receipt is overdue.
	DebtorsDays int
	// DebtorsOutstandingOnly drops receipts that were already returned, however late.
	DebtorsOutstandingOnly bool
	// Location frames "this month" and "this year".
	Location *time.Location
	Now      func() time.Time
}

type ReceiptsService struct {
	db   *gorm.DB
	opts Options
}

func NewReceiptsService(db *gorm.DB, opts Options) *ReceiptsService {
	if opts.DebtorsDays <= 0 {
		opts.DebtorsDays = DefaultDebtorsDays
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ReceiptsService{db: db, opts: opts}
}

// Now is the service clock in the configured location.
func (s *ReceiptsService) Now() time.Time { return s.opts.Now().In(s.opts.Location) }

func (s *ReceiptsService) DebtorsDays() int { return s.opts.DebtorsDays }

// IssueBook opens a receipt for (bookID, studentID). A second outstanding receipt
// for the same pair is a Conflict.
func (s *ReceiptsService) IssueBook(ctx context.Context, bookID, studentID uint) (*receiptModel.ReceivingBookModel, error) {
	now := s.Now().UTC()
	receipt := &receiptModel.ReceivingBookModel{
		ReceiptBookID:    bookID,
		ReceiptStudentID: studentID,
		DateOfIssue:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &bookModel.BookModel{}, "book_id = ?", bookID); err != nil {
			if apperr.IsNotFound(err) {
				return apperr.NotFound("There is no book with id %d", bookID)
			}
			return err
		}
		if err := ensureExists(tx, &studentModel.StudentModel{}, "student_id = ?", studentID); err != nil {
			if apperr.IsNotFound(err) {
				return apperr.Wrap(apperr.KindNotFound, apperr.ErrStudentNotFound, "There is no student with id %d", studentID)
			}
			return err
		}

		var open int64
		if err := tx.Model(&receiptModel.ReceivingBookModel{}).
			Where("book_id = ? AND student_id = ? AND date_of_return IS NULL", bookID, studentID).
			Count(&open).Error; err != nil {
			return apperr.Internal(err)
		}
		if open > 0 {
			return apperr.Conflict("A student with id %d has already taken a book with id %d", studentID, bookID)
		}

		if err := tx.Create(receipt).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return apperr.Wrap(apperr.KindConflict, err, "A student with id %d has already taken a book with id %d", studentID, bookID)
			}
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RECEIPTS][ISSUE] receipt_id=%d book_id=%d student_id=%d", receipt.ReceiptID, bookID, studentID)
	return receipt, nil
}

// ReturnBook closes the single outstanding receipt of the pair.
func (s *ReceiptsService) ReturnBook(ctx context.Context, bookID, studentID uint) (*receiptModel.ReceivingBookModel, error) {
	now := s.Now().UTC()
	var receipt receiptModel.ReceivingBookModel

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("book_id = ? AND student_id = ? AND date_of_return IS NULL", bookID, studentID)
		if tx.Dialector.Name() == database.DriverPostgres {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var open []receiptModel.ReceivingBookModel
		if err := q.Limit(2).Find(&open).Error; err != nil {
			return apperr.Internal(err)
		}
		if len(open) == 0 {
			return apperr.NotFound("Student %d did not take book %d", studentID, bookID)
		}
		if len(open) > 1 {
			return apperr.Conflict("Found more than one entry with input (book=%d, student=%d)", bookID, studentID)
		}

		receipt = open[0]
		res := tx.Model(&receiptModel.ReceivingBookModel{}).
			Where("receipt_id = ? AND date_of_return IS NULL", receipt.ReceiptID).
			Update("date_of_return", now)
		if res.Error != nil {
			return apperr.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Student %d did not take book %d", studentID, bookID)
		}
		receipt.DateOfReturn = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RECEIPTS][RETURN] receipt_id=%d book_id=%d student_id=%d", receipt.ReceiptID, bookID, studentID)
	return &receipt, nil
}

// AverageLoansPerStudent averages, over students who took at least one book in the
// calendar month containing month, how many books each took. ok is false when
// nobody took a book that month.
func (s *ReceiptsService) AverageLoansPerStudent(ctx context.Context, month time.Time) (avg float64, ok bool, err error) {
	from, to := database.MonthRange(month.In(s.opts.Location))
	db := s.db.WithContext(ctx)

	perStudent := db.Model(&receiptModel.ReceivingBookModel{}).
		Select("COUNT(receiving_books.receipt_id) AS row_count").
		Where("receiving_books.date_of_issue >= ? AND receiving_books.date_of_issue < ?", from.UTC(), to.UTC()).
		Group("receiving_books.student_id")

	var result sql.NullFloat64
	if err := db.Table("(?) AS per_student", perStudent).
		Select("AVG(per_student.row_count)").
		Row().Scan(&result); err != nil {
		return 0, false, apperr.Internal(err)
	}
	if !result.Valid {
		return 0, false, nil
	}
	return result.Float64, true, nil
}

// Debtors lists receipts held longer than the threshold. Returned receipts that
// were held too long stay on the list unless DebtorsOutstandingOnly is set.
func (s *ReceiptsService) Debtors(ctx context.Context) ([]receiptModel.ReceivingBookModel, error) {
	db := s.db.WithContext(ctx)
	expr, args := database.HeldLongerThan(db, s.Now().UTC(), s.opts.DebtorsDays)

	q := db.Model(&receiptModel.ReceivingBookModel{}).Where(expr, args...)
	if s.opts.DebtorsOutstandingOnly {
		q = q.Where("receiving_books.date_of_return IS NULL")
	}

	var out []receiptModel.ReceivingBookModel
	if err := q.Order("receiving_books.date_of_issue ASC").
		Order("receiving_books.receipt_id ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// MostReadingStudents ranks students by books taken during the year containing
// year, then by how many of those they returned. At most ten rows.
func (s *ReceiptsService) MostReadingStudents(ctx context.Context, year time.Time) ([]studentModel.StudentWithReadCount, error) {
	from, to := database.YearRange(year.In(s.opts.Location))

	var rows []studentModel.StudentWithReadCount
	err := s.db.WithContext(ctx).
		Table("students").
		Select("students.student_id, students.name, students.surname, students.phone, students.email, " +
			"students.average_score, students.scholarship, COUNT(receiving_books.date_of_issue) AS read_books").
		Joins("JOIN receiving_books ON receiving_books.student_id = students.student_id").
		Where("receiving_books.date_of_issue >= ? AND receiving_books.date_of_issue < ?", from.UTC(), to.UTC()).
		Group("students.student_id, students.name, students.surname, students.phone, students.email, students.average_score, students.scholarship").
		Order("read_books DESC").
		Order("COUNT(receiving_books.date_of_return) DESC").
		Order("students.student_id ASC").
		Limit(MostReadingStudentsTop).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

func ensureExists(tx *gorm.DB, model any, query string, args ...any) error {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return apperr.Internal(err)
	}
	if n == 0 {
		return apperr.NotFound("record not found")
	}
	return nil
}

// IsStudentMissing reports whether err came from an unknown student id.
func IsStudentMissing(err error) bool {
	return errors.Is(err, apperr.ErrStudentNotFound)
}
