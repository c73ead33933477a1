package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	studentModel "library_backend/internals/features/library/students/model"
	helper "library_backend/internals/helpers"
	"library_backend/internals/helpers/apperr"
)

const bulkInsertBatchSize = 100

type StudentsService struct {
	db *gorm.DB
}

func NewStudentsService(db *gorm.DB) *StudentsService {
	return &StudentsService{db: db}
}

func (s *StudentsService) GetStudent(ctx context.Context, id uint) (*studentModel.StudentModel, error) {
	var st studentModel.StudentModel
	if err := s.db.WithContext(ctx).First(&st, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, apperr.ErrStudentNotFound, "There is no student with id %d", id)
		}
		return nil, apperr.Internal(err)
	}
	return &st, nil
}

// RegisterStudent validates and inserts one student. Duplicate (name, surname, phone)
// or a duplicate email is a Conflict.
func (s *StudentsService) RegisterStudent(ctx context.Context, st *studentModel.StudentModel) error {
	if err := PrepareStudent(st); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNotRegistered(tx, st); err != nil {
			return err
		}
		if err := tx.Create(st).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return apperr.Wrap(apperr.KindConflict, err, "Student is already registered")
			}
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[STUDENTS][REGISTER] student_id=%d email=%s", st.StudentID, st.StudentEmail)
	return nil
}

// ensureNotRegistered turns the two unique keys into readable conflicts before the insert.
func ensureNotRegistered(tx *gorm.DB, st *studentModel.StudentModel) error {
	var n int64
	if err := tx.Model(&studentModel.StudentModel{}).
		Where("email = ?", st.StudentEmail).
		Count(&n).Error; err != nil {
		return apperr.Internal(err)
	}
	if n > 0 {
		return apperr.Conflict("Student with email %s already exists", st.StudentEmail)
	}

	if err := tx.Model(&studentModel.StudentModel{}).
		Where("name = ? AND surname = ? AND phone = ?", st.StudentName, st.StudentSurname, st.StudentPhone).
		Count(&n).Error; err != nil {
		return apperr.Internal(err)
	}
	if n > 0 {
		return apperr.Conflict("Student %s %s with phone %s already exists", st.StudentName, st.StudentSurname, st.StudentPhone)
	}
	return nil
}

// BulkRegisterStudents validates every row the same way RegisterStudent does and
// inserts them all in one transaction. Any invalid or colliding row fails the
// whole import and nothing is written.
func (s *StudentsService) BulkRegisterStudents(ctx context.Context, students []studentModel.StudentModel) (int, error) {
	if len(students) == 0 {
		return 0, apperr.Validation("There are no students to add")
	}
	for i := range students {
		students[i].StudentID = 0
		if err := PrepareStudent(&students[i]); err != nil {
			return 0, rowError(i+1, err)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&students, bulkInsertBatchSize).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return apperr.Wrap(apperr.KindConflict, err, "The students are already in database")
			}
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[STUDENTS][BULK] inserted=%d", len(students))
	return len(students), nil
}

// StudentsWithScholarship lists scholarship holders; none is NotFound.
func (s *StudentsService) StudentsWithScholarship(ctx context.Context) ([]studentModel.StudentModel, error) {
	var out []studentModel.StudentModel
	if err := s.db.WithContext(ctx).
		Where("scholarship = ?", true).
		Order("student_id ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if len(out) == 0 {
		return nil, apperr.NotFound("At the moment there are no students having a scholarship")
	}
	return out, nil
}

// StudentsByAverageScore lists students strictly above minScore; none is NotFound.
func (s *StudentsService) StudentsByAverageScore(ctx context.Context, minScore float64) ([]studentModel.StudentModel, error) {
	var out []studentModel.StudentModel
	if err := s.db.WithContext(ctx).
		Where("average_score > ?", minScore).
		Order("average_score DESC").
		Order("student_id ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if len(out) == 0 {
		return nil, apperr.NotFound("There are currently no students with an average score higher than %g", minScore)
	}
	return out, nil
}
