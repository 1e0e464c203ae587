package handler

import (
	"github.com/Sasaank79/Inventory-Management-System/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to its HTTP status in one place.
func respondError(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	if status == 500 {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// parseID answers 404 for malformed or non-positive path ids, same as a
// router that only matches numeric segments would.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("invalid %s", name)
	}
	return uint(id), nil
}
