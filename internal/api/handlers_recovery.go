package api

import (
	"github.com/gofiber/fiber/v2"
)

type issueTokenPayload struct {
	UserID uint `json:"userId"`
}

func (handler *Handler) IssueReturnToken(c *fiber.Ctx) error {
	var payload issueTokenPayload
	if err := c.BodyParser(&payload); err != nil || payload.UserID == 0 {
		return apiError(c, fiber.StatusBadRequest, "userId is required")
	}

	token, err := handler.recovery.IssueOrRotateToken(payload.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// ResolveReturnToken answers who owns a return token. An unknown token is a
// normal outcome (the link may have been rotated away), not an error: the
// response carries user:null.
func (handler *Handler) ResolveReturnToken(c *fiber.Ctx) error {
	user, err := handler.recovery.Resolve(c.Query("token"))
	if err != nil {
		return serviceError(c, err)
	}
	if user == nil {
		return c.JSON(fiber.Map{"user": nil})
	}
	return c.JSON(fiber.Map{"user": user})
}
