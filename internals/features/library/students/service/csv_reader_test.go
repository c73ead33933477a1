package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_backend/internals/helpers/apperr"
)

func Test_ReadStudentsCSV(t *testing.T) {
	t.Run("parses rows", func(t *testing.T) {
		in := "\ufeffname;surname;phone;email;average_score;scholarship\n" +
			"Anna;Ivanova;+79000000011;anna@mail.ru;4.5;True\n" +
			"\n" +
			"Boris;Sidorov;+79000000012;boris@mail.ru;3,75;False\n" +
			"Vera;Orlova;+79000000013;vera@mail.ru;5;true\n"

		rows, err := ReadStudentsCSV(strings.NewReader(in))

		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Anna", rows[0].StudentName)
		assert.Equal(t, "anna@mail.ru", rows[0].StudentEmail)
		assert.InDelta(t, 4.5, rows[0].StudentAverageScore, 1e-9)
		assert.True(t, rows[0].StudentScholarship)
		assert.InDelta(t, 3.75, rows[1].StudentAverageScore, 1e-9)
		assert.False(t, rows[1].StudentScholarship)
		assert.False(t, rows[2].StudentScholarship, "only the literal True counts")
	})

	t.Run("columns in any order", func(t *testing.T) {
		in := "email;scholarship;name;surname;phone;average_score;group\n" +
			"anna@mail.ru;True;Anna;Ivanova;+79000000011;4;A-1\n"

		rows, err := ReadStudentsCSV(strings.NewReader(in))

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Ivanova", rows[0].StudentSurname)
		assert.Equal(t, "+79000000011", rows[0].StudentPhone)
	})

	for name, in := range map[string]string{
		"empty file":     "",
		"missing column": "name;surname;phone;email;average_score\nAnna;Ivanova;+79000000011;anna@mail.ru;4\n",
		"header only":    "name;surname;phone;email;average_score;scholarship\n",
		"bad score":      "name;surname;phone;email;average_score;scholarship\nAnna;Ivanova;+79000000011;anna@mail.ru;high;True\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadStudentsCSV(strings.NewReader(in))

			assert.True(t, apperr.IsValidation(err))
		})
	}
}
