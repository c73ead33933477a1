package model

import (
	"math"
	"time"

	bookModel "library_backend/internals/features/library/books/model"
	studentModel "library_backend/internals/features/library/students/model"
)

// ReceivingBookModel is a lending receipt. It is outstanding while DateOfReturn is nil.
type ReceivingBookModel struct {
	ReceiptID        uint       `gorm:"primaryKey;autoIncrement;column:receipt_id" json:"receipt_id"`
	ReceiptBookID    uint       `gorm:"not null;index:ix_receiving_books_book_id;column:book_id" json:"book_id"`
	ReceiptStudentID uint       `gorm:"not null;index:ix_receiving_books_student_id;column:student_id" json:"student_id"`
	DateOfIssue      time.Time  `gorm:"not null;column:date_of_issue" json:"date_of_issue"`
	DateOfReturn     *time.Time `gorm:"column:date_of_return" json:"date_of_return"`

	Book    *bookModel.BookModel       `gorm:"foreignKey:ReceiptBookID;references:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student *studentModel.StudentModel `gorm:"foreignKey:ReceiptStudentID;references:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (ReceivingBookModel) TableName() string { return "receiving_books" }

func (r *ReceivingBookModel) IsOutstanding() bool { return r.DateOfReturn == nil }

// DaysHeld counts whole days between issue and return, or between issue and now
// while the book is still out.
func (r *ReceivingBookModel) DaysHeld(now time.Time) int {
	end := now
	if r.DateOfReturn != nil {
		end = *r.DateOfReturn
	}
	d := end.Sub(r.DateOfIssue).Hours() / 24
	if d < 0 {
		return 0
	}
	return int(math.Floor(d))
}
