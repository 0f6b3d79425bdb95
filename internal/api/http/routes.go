package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/arso-exporter/internal/weather"
)

const (
	bannerText = "Try /metrics\r\n"

	// exposition text format
	metricsContentType = "text/plain; version=0.0.4; charset=utf-8"
)

// Renderer produces the metrics exposition.
type Renderer interface {
	Render() (string, error)
}

// StatusSource reports the latest refresh status.
type StatusSource interface {
	Status() weather.Status
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, metrics Renderer, status StatusSource) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(bannerText)
	})

	app.Get("/metrics", func(c *fiber.Ctx) error {
		text, err := metrics.Render()
		if err != nil {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(fiber.StatusInternalServerError).SendString("failed to render metrics: " + err.Error())
		}
		c.Set(fiber.HeaderContentType, metricsContentType)
		return c.SendString(text)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/status", func(c *fiber.Ctx) error {
		st := status.Status()
		code := fiber.StatusOK
		if st.LastSuccess.IsZero() && st.LastError != "" {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(st)
	})
}
