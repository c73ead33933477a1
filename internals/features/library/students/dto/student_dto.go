package dto

import (
	"strings"

	model "library_backend/internals/features/library/students/model"
)

/* =========================================================
   REQUEST
   ========================================================= */

// StudentCreateRequest is the JSON body of POST /library/add_new_student.
// Pointers let the validator tell a missing field from a zero value.
type StudentCreateRequest struct {
	Name         string   `json:"name"          validate:"required"`
	Surname      string   `json:"surname"       validate:"required"`
	Phone        string   `json:"phone"         validate:"required"`
	Email        string   `json:"email"         validate:"required"`
	AverageScore *float64 `json:"average_score" validate:"required,gte=0"`
	Scholarship  *bool    `json:"scholarship"   validate:"required"`
}

func (r *StudentCreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *StudentCreateRequest) ToModel() *model.StudentModel {
	m := &model.StudentModel{
		StudentName:    r.Name,
		StudentSurname: r.Surname,
		StudentPhone:   r.Phone,
		StudentEmail:   r.Email,
	}
	if r.AverageScore != nil {
		m.StudentAverageScore = *r.AverageScore
	}
	if r.Scholarship != nil {
		m.StudentScholarship = *r.Scholarship
	}
	return m
}

// StudentsByScoreQuery: GET /library/students/by_average_score?average_score=
type StudentsByScoreQuery struct {
	AverageScore *float64 `query:"average_score" validate:"required"`
}
