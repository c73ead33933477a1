package controller

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"library_backend/internals/constants"
	"library_backend/internals/features/library/students/dto"
	studentModel "library_backend/internals/features/library/students/model"
	studentService "library_backend/internals/features/library/students/service"
	helper "library_backend/internals/helpers"
	"library_backend/internals/helpers/apperr"
)

const uploadFormField = "files"

type StudentsService interface {
	GetStudent(ctx context.Context, id uint) (*studentModel.StudentModel, error)
	RegisterStudent(ctx context.Context, st *studentModel.StudentModel) error
	BulkRegisterStudents(ctx context.Context, students []studentModel.StudentModel) (int, error)
	StudentsWithScholarship(ctx context.Context) ([]studentModel.StudentModel, error)
	StudentsByAverageScore(ctx context.Context, minScore float64) ([]studentModel.StudentModel, error)
}

type StudentsController struct {
	Service   StudentsService
	Validator *validator.Validate
	UploadDir string
}

func NewStudentsController(svc StudentsService, v *validator.Validate, uploadDir string) *StudentsController {
	return &StudentsController{Service: svc, Validator: v, UploadDir: uploadDir}
}

// POST /library/add_new_student
func (h *StudentsController) AddNewStudent(c *fiber.Ctx) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return helper.Text(c, fiber.StatusNotFound, "There is no data")
	}

	decode := c.App().Config().JSONDecoder

	var raw map[string]any
	if err := decode(body, &raw); err != nil {
		return helper.Text(c, fiber.StatusBadRequest, "Payload is not a JSON object")
	}
	if len(raw) == 0 {
		return helper.Text(c, fiber.StatusNotFound, "There is no data")
	}

	var req dto.StudentCreateRequest
	if err := decode(body, &req); err != nil {
		return helper.Text(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid payload: %v", err))
	}
	req.Normalize()
	if err := helper.ValidateStruct(h.Validator, &req); err != nil {
		return helper.TextError(c, err)
	}

	if err := h.Service.RegisterStudent(c.UserContext(), req.ToModel()); err != nil {
		return helper.TextError(c, err)
	}
	return helper.Text(c, fiber.StatusCreated, "Student added successfully")
}

// POST /library/add_students_from_file (multipart, field "files")
func (h *StudentsController) AddStudentsFromFile(c *fiber.Ctx) error {
	fh, err := c.FormFile(uploadFormField)
	if err != nil || fh == nil {
		return helper.Text(c, fiber.StatusBadRequest, "File not found")
	}
	if strings.TrimSpace(fh.Filename) == "" {
		return helper.Text(c, fiber.StatusBadRequest, "No selected file")
	}
	if !constants.IsStudentImportFile(fh.Filename) {
		return helper.Text(c, fiber.StatusBadRequest, "Wrong file")
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		log.Printf("[STUDENTS][UPLOAD] mkdir %s: %v", h.UploadDir, err)
		return helper.Text(c, fiber.StatusInternalServerError, "Failed to store the file")
	}
	stored := filepath.Join(h.UploadDir, uuid.NewString()+"_"+secureFilename(fh.Filename))
	if err := c.SaveFile(fh, stored); err != nil {
		log.Printf("[STUDENTS][UPLOAD] save %s: %v", stored, err)
		return helper.Text(c, fiber.StatusInternalServerError, "Failed to store the file")
	}
	log.Printf("[STUDENTS][UPLOAD] stored %q as %s (%d bytes)", fh.Filename, stored, fh.Size)

	f, err := os.Open(stored)
	if err != nil {
		return helper.Text(c, fiber.StatusInternalServerError, "Failed to read the file")
	}
	defer f.Close()

	students, err := studentService.ReadStudentsCSV(f)
	if err != nil {
		return helper.TextError(c, err)
	}

	if _, err := h.Service.BulkRegisterStudents(c.UserContext(), students); err != nil {
		if apperr.IsConflict(err) {
			return helper.Text(c, fiber.StatusBadRequest, "The students are already in database")
		}
		return helper.TextError(c, err)
	}
	return helper.Text(c, fiber.StatusCreated, "Students added successfully")
}

// GET /library/students/:id
func (h *StudentsController) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return helper.Text(c, fiber.StatusBadRequest, "'id' must be a positive integer")
	}
	st, err := h.Service.GetStudent(c.UserContext(), uint(id))
	if err != nil {
		return helper.TextError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"student": st})
}

// GET /library/students/scholarship
func (h *StudentsController) WithScholarship(c *fiber.Ctx) error {
	list, err := h.Service.StudentsWithScholarship(c.UserContext())
	if err != nil {
		return helper.TextError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"students": list})
}

// GET /library/students/by_average_score?average_score=
func (h *StudentsController) ByAverageScore(c *fiber.Ctx) error {
	var q dto.StudentsByScoreQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.Text(c, fiber.StatusBadRequest, "'average_score' must be a number")
	}
	if err := helper.ValidateStruct(h.Validator, &q); err != nil {
		return helper.TextError(c, err)
	}
	list, err := h.Service.StudentsByAverageScore(c.UserContext(), *q.AverageScore)
	if err != nil {
		return helper.TextError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"students": list})
}

// secureFilename keeps the base name and drops anything outside [A-Za-z0-9._-].
func secureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.TrimLeft(b.String(), "._")
	if out == "" {
		return "upload.csv"
	}
	return out
}
