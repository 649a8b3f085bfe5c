package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// Healthz is the bare liveness probe.
func (handler *Handler) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Health runs the week-creation audit and returns the graded report. Alert
// fan-out happens inside the service and never delays this response.
func (handler *Handler) Health(c *fiber.Ctx) error {
	report, err := handler.health.Evaluate(c.Context())
	if err != nil {
		log.Printf("health evaluation failed: %v", err)
		return apiError(c, fiber.StatusInternalServerError, "health evaluation failed")
	}
	return c.JSON(report)
}
