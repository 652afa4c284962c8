package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/LeChef318/warehouse-app/pkg/logger"
)

// HeaderRequestID header de correlación; se respeta el del cliente si viene.
const HeaderRequestID = "X-Request-ID"

// RequestLogger asigna un request id y loguea método, ruta, status y duración.
func RequestLogger(log *logger.Logger) fiber.Handler {
	reqLog := log.Component("http")
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		evt := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			evt = reqLog.Error()
		}
		evt.Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
		return err
	}
}
