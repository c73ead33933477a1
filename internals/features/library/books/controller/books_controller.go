package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	bookModel "library_backend/internals/features/library/books/model"
	helper "library_backend/internals/helpers"
	"library_backend/internals/helpers/apperr"
)

type BooksService interface {
	ListBooks(ctx context.Context) ([]bookModel.BookModel, error)
	FindBooksByTitle(ctx context.Context, title string) ([]bookModel.BookModel, error)
	MostPopularBook(ctx context.Context) (*bookModel.BookWithCount, error)
	RecommendationsForStudent(ctx context.Context, studentID uint) ([]bookModel.BookModel, error)
	SumOfCopiesByAuthor(ctx context.Context, authorID uint) (int64, bool, error)
}

type BooksController struct {
	Service BooksService
}

func NewBooksController(svc BooksService) *BooksController {
	return &BooksController{Service: svc}
}

// GET /library/get_all
func (h *BooksController) GetAll(c *fiber.Ctx) error {
	books, err := h.Service.ListBooks(c.UserContext())
	if err != nil {
		return helper.TextError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"book_list": books})
}

// GET /library/get_by_name?title=
// An empty or missing title matches every book.
func (h *BooksController) GetByName(c *fiber.Ctx) error {
	title := c.Query("title")

	books, err := h.Service.FindBooksByTitle(c.UserContext(), title)
	if err != nil {
		return helper.TextError(c, err)
	}
	if len(books) == 0 {
		return helper.Text(c, fiber.StatusNotFound, fmt.Sprintf("There is no book with title %s in the library", title))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"book_list": books})
}

// GET /library/most_popular_book
func (h *BooksController) MostPopular(c *fiber.Ctx) error {
	book, err := h.Service.MostPopularBook(c.UserContext())
	if err != nil {
		return helper.TextError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"most_popular_book": book})
}

// GET /library/book_recommendations?student_id=
// An unknown student is the caller's mistake (400); no recommendations is 404.
func (h *BooksController) Recommendations(c *fiber.Ctx) error {
	studentID, err := queryID(c, "student_id")
	if err != nil {
		return helper.TextError(c, err)
	}

	books, err := h.Service.RecommendationsForStudent(c.UserContext(), studentID)
	if err != nil {
		if errors.Is(err, apperr.ErrStudentNotFound) {
			return helper.Text(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.TextError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"recommendations": books})
}

// GET /library/sum_of_books_by_author?author_id=
func (h *BooksController) SumByAuthor(c *fiber.Ctx) error {
	authorID, err := queryID(c, "author_id")
	if err != nil {
		return helper.TextError(c, err)
	}

	sum, ok, err := h.Service.SumOfCopiesByAuthor(c.UserContext(), authorID)
	if err != nil {
		return helper.TextError(c, err)
	}
	if !ok || sum == 0 {
		return helper.Text(c, fiber.StatusNotFound, "There are no books by this author in the library")
	}
	return helper.Text(c, fiber.StatusOK, fmt.Sprintf("The author with id %d has %d books in the library", authorID, sum))
}

func queryID(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, apperr.Validation("missing required argument: '%s'", key)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("'%s' must be a positive integer", key)
	}
	return uint(id), nil
}
