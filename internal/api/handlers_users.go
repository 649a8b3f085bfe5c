package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/idolanuel5885/serenity-plus/internal/services"
)

type createUserPayload struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	WeeklyTarget   int    `json:"weeklyTarget"`
	UsualSitLength int    `json:"usualSitLength"`
}

func (handler *Handler) CreateUser(c *fiber.Ctx) error {
	var payload createUserPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := handler.accounts.CreateUser(services.NewUserInput{
		Name:           payload.Name,
		Email:          payload.Email,
		WeeklyTarget:   payload.WeeklyTarget,
		UsualSitLength: payload.UsualSitLength,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (handler *Handler) GetUser(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := handler.accounts.GetUser(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}
