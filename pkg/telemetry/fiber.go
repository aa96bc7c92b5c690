package telemetry

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// FiberMiddleware counts requests on a Fiber app with the same labels as
// Instrument. The status is read after the handler chain has run.
func (r *Recorder) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		code := c.Response().StatusCode()
		if err != nil {
			code = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
		}
		r.requests.WithLabelValues(strconv.Itoa(code), strings.ToLower(c.Method())).Inc()
		return err
	}
}
