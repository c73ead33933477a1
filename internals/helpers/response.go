package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"library_backend/internals/helpers/apperr"
)

// Text sends a plain-text body with the given status.
func Text(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).SendString(message)
}

// StatusFor maps an error kind onto an HTTP status. Conflicts are 400, not 409.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}
}

// TextError writes err as plain text with the status its kind maps to.
// Internal errors are not echoed back.
func TextError(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	if code >= fiber.StatusInternalServerError {
		return Text(c, code, "Internal server error")
	}
	return Text(c, code, err.Error())
}
