package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	bookController "library_backend/internals/features/library/books/controller"
	bookRoutes "library_backend/internals/features/library/books/route"
	receiptController "library_backend/internals/features/library/receipts/controller"
	receiptRoutes "library_backend/internals/features/library/receipts/route"
	studentController "library_backend/internals/features/library/students/controller"
	studentRoutes "library_backend/internals/features/library/students/route"
)

// LibraryServices bundles what the /library routes call into.
type LibraryServices struct {
	Books     bookController.BooksService
	Students  studentController.StudentsService
	Receipts  receiptController.ReceiptsService
	Validator *validator.Validate
	UploadDir string

	// UploadGuards run before the CSV import handler (rate limiting).
	UploadGuards []fiber.Handler
}

// Mounted under /library, e.g. GET /library/get_all.
func LibraryRoutes(api fiber.Router, s LibraryServices) {
	bookRoutes.BooksRoutes(api, s.Books)
	studentRoutes.StudentsRoutes(api, s.Students, s.Validator, s.UploadDir, s.UploadGuards...)
	receiptRoutes.ReceiptsRoutes(api, s.Receipts, s.Validator)
}
