package controller

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"library_backend/internals/features/library/receipts/dto"
	receiptModel "library_backend/internals/features/library/receipts/model"
	studentModel "library_backend/internals/features/library/students/model"
	helper "library_backend/internals/helpers"
)

type ReceiptsService interface {
	Now() time.Time
	IssueBook(ctx context.Context, bookID, studentID uint) (*receiptModel.ReceivingBookModel, error)
	ReturnBook(ctx context.Context, bookID, studentID uint) (*receiptModel.ReceivingBookModel, error)
	AverageLoansPerStudent(ctx context.Context, month time.Time) (float64, bool, error)
	Debtors(ctx context.Context) ([]receiptModel.ReceivingBookModel, error)
	MostReadingStudents(ctx context.Context, year time.Time) ([]studentModel.StudentWithReadCount, error)
}

type ReceiptsController struct {
	Service   ReceiptsService
	Validator *validator.Validate
}

func NewReceiptsController(svc ReceiptsService, v *validator.Validate) *ReceiptsController {
	return &ReceiptsController{Service: svc, Validator: v}
}

// GET /library/avg_count_of_receiving_books
func (h *ReceiptsController) AverageThisMonth(c *fiber.Ctx) error {
	now := h.Service.Now()
	reqDate := now.Format("02-01-2006")

	avg, ok, err := h.Service.AverageLoansPerStudent(c.UserContext(), now)
	if err != nil {
		return helper.TextError(c, err)
	}
	if !ok || avg == 0 {
		return helper.Text(c, fiber.StatusNotFound,
			fmt.Sprintf("Students did not take books this month\nRequest date: %s", reqDate))
	}
	return helper.Text(c, fiber.StatusOK,
		fmt.Sprintf("Average count of books students borrowed this month = %v\nRequest date: %s", round2(avg), reqDate))
}

// GET /library/debtors
func (h *ReceiptsController) Debtors(c *fiber.Ctx) error {
	rows, err := h.Service.Debtors(c.UserContext())
	if err != nil {
		return helper.TextError(c, err)
	}
	if len(rows) == 0 {
		return helper.Text(c, fiber.StatusNotFound, "No students failed their books")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"list_of_debtors": dto.ToDebtorResponses(rows, h.Service.Now()),
	})
}

// GET /library/most_reading_students
func (h *ReceiptsController) MostReadingStudents(c *fiber.Ctx) error {
	rows, err := h.Service.MostReadingStudents(c.UserContext(), h.Service.Now())
	if err != nil {
		return helper.TextError(c, err)
	}
	if len(rows) == 0 {
		return helper.Text(c, fiber.StatusNotFound, "There are no students data in the database yet")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"most_reading_students": rows})
}

// POST /library/give_book (form: book_id, student_id)
func (h *ReceiptsController) GiveBook(c *fiber.Ctx) error {
	req, err := h.parseForm(c)
	if err != nil {
		return helper.TextError(c, err)
	}
	if _, err := h.Service.IssueBook(c.UserContext(), req.BookID, req.StudentID); err != nil {
		return helper.TextError(c, err)
	}
	return helper.Text(c, fiber.StatusCreated,
		fmt.Sprintf("Book with id %d issued to student %d", req.BookID, req.StudentID))
}

// POST /library/return_book (form: book_id, student_id)
func (h *ReceiptsController) ReturnBook(c *fiber.Ctx) error {
	req, err := h.parseForm(c)
	if err != nil {
		return helper.TextError(c, err)
	}
	if _, err := h.Service.ReturnBook(c.UserContext(), req.BookID, req.StudentID); err != nil {
		return helper.TextError(c, err)
	}
	return helper.Text(c, fiber.StatusOK, fmt.Sprintf("Book with id %d was returned", req.BookID))
}

func (h *ReceiptsController) parseForm(c *fiber.Ctx) (*dto.ReceiptFormRequest, error) {
	var req dto.ReceiptFormRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "book_id and student_id must be positive integers")
	}
	if err := helper.ValidateStruct(h.Validator, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
