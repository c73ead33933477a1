package route

import (
	receiptController "library_backend/internals/features/library/receipts/controller"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Mounted as route.ReceiptsRoutes(app.Group("/library"), ...):
//
//	GET  /library/avg_count_of_receiving_books
//	GET  /library/debtors
//	GET  /library/most_reading_students
//	POST /library/give_book
//	POST /library/return_book
func ReceiptsRoutes(r fiber.Router, svc receiptController.ReceiptsService, v *validator.Validate) {
	ctl := receiptController.NewReceiptsController(svc, v)

	r.Get("/avg_count_of_receiving_books", ctl.AverageThisMonth)
	r.Get("/debtors", ctl.Debtors)
	r.Get("/most_reading_students", ctl.MostReadingStudents)
	r.Post("/give_book", ctl.GiveBook)
	r.Post("/return_book", ctl.ReturnBook)
}
