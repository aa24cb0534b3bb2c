package http

import (
	"v5c-properties/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

const notFoundMessage = "Item not found"

// respondError renders err as {"error": message} with the status it maps to.
// Unclassified errors become a 500 carrying the raw message.
func respondError(c *fiber.Ctx, err error) error {
	status := errors.HTTPStatus(err)
	message := err.Error()
	if status == fiber.StatusNotFound && errors.IsNotFound(err) {
		message = notFoundMessage
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
