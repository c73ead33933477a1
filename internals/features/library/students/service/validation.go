package service

import (
	"regexp"
	"strings"

	studentModel "library_backend/internals/features/library/students/model"
	helper "library_backend/internals/helpers"
	"library_backend/internals/helpers/apperr"
)

var (
	rePhone = regexp.MustCompile(`^\+79\d{9}$`)
	reEmail = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// ValidatePhone accepts +79 followed by exactly nine digits.
func ValidatePhone(phone string) error {
	if !rePhone.MatchString(phone) {
		return apperr.Validation("Invalid phone number: %s.\nEnter the number in the format +79*********", phone)
	}
	return nil
}

// NormalizeEmail checks the local@domain.tld shape and lower-cases the address.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !reEmail.MatchString(email) {
		return "", apperr.Validation("Invalid email address: %s. It must be a valid email format.", email)
	}
	return strings.ToLower(email), nil
}

// PrepareStudent normalises s in place and rejects malformed contact details.
// Every insert path goes through it before touching the store.
func PrepareStudent(s *studentModel.StudentModel) error {
	s.StudentName = helper.NormalizeName(s.StudentName)
	s.StudentSurname = helper.NormalizeName(s.StudentSurname)
	s.StudentPhone = strings.TrimSpace(s.StudentPhone)

	if s.StudentName == "" || s.StudentSurname == "" {
		return apperr.Validation("name and surname are required")
	}
	if err := ValidatePhone(s.StudentPhone); err != nil {
		return err
	}
	email, err := NormalizeEmail(s.StudentEmail)
	if err != nil {
		return err
	}
	s.StudentEmail = email
	return nil
}
