package service

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	studentModel "library_backend/internals/features/library/students/model"
	"library_backend/internals/helpers/apperr"
)

var requiredCSVColumns = []string{"name", "surname", "phone", "email", "average_score", "scholarship"}

// ReadStudentsCSV parses a ';'-delimited file with a header row. scholarship is
// true only for the literal string "True"; unknown columns are ignored.
func ReadStudentsCSV(r io.Reader) ([]studentModel.StudentModel, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperr.Validation("The file is empty")
		}
		return nil, apperr.Validation("Wrong file: %v", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[strings.ToLower(h)] = i
	}
	for _, col := range requiredCSVColumns {
		if _, ok := idx[col]; !ok {
			return nil, apperr.Validation("Wrong file: column %q is missing", col)
		}
	}

	var students []studentModel.StudentModel
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, apperr.Validation("Wrong file: line %d: %v", line, err)
		}
		if isBlankRecord(rec) {
			continue
		}

		field := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		score := 0.0
		if v := field("average_score"); v != "" {
			score, err = strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
			if err != nil {
				return nil, apperr.Validation("Wrong file: line %d: average_score %q is not a number", line, v)
			}
		}

		students = append(students, studentModel.StudentModel{
			StudentName:         field("name"),
			StudentSurname:      field("surname"),
			StudentPhone:        field("phone"),
			StudentEmail:        field("email"),
			StudentAverageScore: score,
			StudentScholarship:  field("scholarship") == "True",
		})
	}

	if len(students) == 0 {
		return nil, apperr.Validation("The file has no students")
	}
	return students, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// rowError prefixes a validation error with the 1-based data row it came from.
func rowError(row int, err error) error {
	return apperr.Wrap(apperr.KindOf(err), err, "row %d: %v", row, err)
}
