package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smd-api/pkg/logger"
	"github.com/jhoicas/smd-api/pkg/metrics"
)

// RequestLogger registra cada petición: método, ruta, status, latencia, request id y usuario.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", requestID(c)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}

// Metrics cuenta peticiones y latencia por ruta registrada (no por URL, para acotar cardinalidad).
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		path := c.Route().Path
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if s, ok := c.Locals("requestid").(string); ok {
		return s
	}
	return c.Get(fiber.HeaderXRequestID)
}
