package dto

import (
	"time"

	model "library_backend/internals/features/library/receipts/model"
)

// ReceiptFormRequest is the form body of give_book / return_book.
type ReceiptFormRequest struct {
	BookID    uint `form:"book_id"    validate:"required,gt=0"`
	StudentID uint `form:"student_id" validate:"required,gt=0"`
}

type DebtorResponse struct {
	ReceiptID         uint       `json:"receipt_id"`
	BookID            uint       `json:"book_id"`
	StudentID         uint       `json:"student_id"`
	DateOfIssue       time.Time  `json:"date_of_issue"`
	DateOfReturn      *time.Time `json:"date_of_return"`
	CountDateWithBook int        `json:"count_date_with_book"`
}

func ToDebtorResponses(rows []model.ReceivingBookModel, now time.Time) []DebtorResponse {
	out := make([]DebtorResponse, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, DebtorResponse{
			ReceiptID:         r.ReceiptID,
			BookID:            r.ReceiptBookID,
			StudentID:         r.ReceiptStudentID,
			DateOfIssue:       r.DateOfIssue,
			DateOfReturn:      r.DateOfReturn,
			CountDateWithBook: r.DaysHeld(now),
		})
	}
	return out
}
