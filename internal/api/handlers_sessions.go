package api

import (
	"github.com/gofiber/fiber/v2"
)

type startSessionPayload struct {
	UserID        uint `json:"userId"`
	PartnershipID uint `json:"partnershipId"`
	SitLength     int  `json:"sitLength"`
}

func (handler *Handler) StartSession(c *fiber.Ctx) error {
	var payload startSessionPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.UserID == 0 || payload.PartnershipID == 0 {
		return apiError(c, fiber.StatusBadRequest, "userId and partnershipId are required")
	}

	session, err := handler.sessions.StartSession(payload.UserID, payload.PartnershipID, payload.SitLength)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"sessionId": session.ID, "weekId": session.WeekID})
}

type completeSessionPayload struct {
	UserID        uint  `json:"userId"`
	PartnershipID uint  `json:"partnershipId"`
	SessionID     *uint `json:"sessionId"`
	Completed     bool  `json:"completed"`
}

func (handler *Handler) CompleteSession(c *fiber.Ctx) error {
	var payload completeSessionPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.UserID == 0 || payload.PartnershipID == 0 {
		return apiError(c, fiber.StatusBadRequest, "userId and partnershipId are required")
	}

	result, err := handler.sessions.CompleteSession(payload.UserID, payload.PartnershipID, payload.SessionID, payload.Completed)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}
