package route

import (
	bookController "library_backend/internals/features/library/books/controller"

	"github.com/gofiber/fiber/v2"
)

// Mounted as route.BooksRoutes(app.Group("/library"), svc):
//
//	GET /library/get_all
//	GET /library/get_by_name?title=
//	GET /library/most_popular_book
//	GET /library/book_recommendations?student_id=
//	GET /library/sum_of_books_by_author?author_id=
func BooksRoutes(r fiber.Router, svc bookController.BooksService) {
	ctl := bookController.NewBooksController(svc)

	r.Get("/get_all", ctl.GetAll)
	r.Get("/get_by_name", ctl.GetByName)
	r.Get("/most_popular_book", ctl.MostPopular)
	r.Get("/book_recommendations", ctl.Recommendations)
	r.Get("/sum_of_books_by_author", ctl.SumByAuthor)
}
