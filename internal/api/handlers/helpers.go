package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/woozysocial/woozy-api/internal/models"
)

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := strconv.Atoi(c.Locals("user_id").(string))
	return int64(userID)
}

// ErrorResponse maps service errors onto HTTP statuses. Unrecognized errors
// stay opaque to the caller.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var (
		validationErr    *models.ValidationError
		forbiddenErr     *models.ForbiddenError
		notFoundErr      *models.NotFoundError
		upstreamErr      *models.UpstreamError
		configurationErr *models.ConfigurationError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Msg})
	case errors.As(err, &forbiddenErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": forbiddenErr.Msg})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundErr.Msg})
	case errors.As(err, &configurationErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": configurationErr.Msg})
	case errors.As(err, &upstreamErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": upstreamErr.Msg})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
	}
}
