package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"github.com/LeChef318/warehouse-app/internal/application/dto"
	"github.com/LeChef318/warehouse-app/internal/domain"
)

// statusFor mapea errores de dominio a códigos HTTP vía errors.Is, para que
// los tipos con detalle hereden el mapeo de su centinela.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidRoleTransition):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrUserInactive):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrStockNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrUsernameConflict),
		errors.Is(err, domain.ErrInUse),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrSameWarehouseTransfer):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrIdP):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// renderError escribe el cuerpo estándar {timestamp, status, error, message, path}.
// Los errores no mapeados se loguean y salen como 500 sin filtrar el detalle.
func renderError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		message = "An unexpected error occurred"
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     utils.StatusMessage(status),
		Message:   message,
		Path:      c.Path(),
	})
}

// renderValidationDetails variante 400 con detalles por campo.
func renderValidationDetails(c *fiber.Ctx, details []string) error {
	status := fiber.StatusBadRequest
	return c.Status(status).JSON(dto.ValidationErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     utils.StatusMessage(status),
		Details:   details,
		Path:      c.Path(),
	})
}

// renderBadBody cuerpo JSON no parseable.
func renderBadBody(c *fiber.Ctx) error {
	return renderError(c, domain.NewValidation("invalid request body"))
}
