package route

import (
	studentController "library_backend/internals/features/library/students/controller"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Mounted as route.StudentsRoutes(app.Group("/library"), ...):
//
//	POST /library/add_new_student
//	POST /library/add_students_from_file
//	GET  /library/students/scholarship
//	GET  /library/students/by_average_score?average_score=
//	GET  /library/students/:id
//
// uploadGuards run in front of the CSV import only.
func StudentsRoutes(r fiber.Router, svc studentController.StudentsService, v *validator.Validate, uploadDir string, uploadGuards ...fiber.Handler) {
	ctl := studentController.NewStudentsController(svc, v, uploadDir)

	r.Post("/add_new_student", ctl.AddNewStudent)
	upload := append(append([]fiber.Handler{}, uploadGuards...), ctl.AddStudentsFromFile)
	r.Post("/add_students_from_file", upload...)

	students := r.Group("/students")
	students.Get("/scholarship", ctl.WithScholarship)
	students.Get("/by_average_score", ctl.ByAverageScore)
	students.Get("/:id", ctl.GetByID)
}
