package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/idolanuel5885/serenity-plus/internal/services"
)

type createPartnershipPayload struct {
	RequesterID uint   `json:"requesterId"`
	InviteCode  string `json:"inviteCode"`
}

func (handler *Handler) CreatePartnership(c *fiber.Ctx) error {
	var payload createPartnershipPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.RequesterID == 0 || strings.TrimSpace(payload.InviteCode) == "" {
		return apiError(c, fiber.StatusBadRequest, "requesterId and inviteCode are required")
	}

	partnership, err := handler.partnerships.CreateOrGetPartnership(payload.RequesterID, payload.InviteCode)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"partnershipId": partnership.ID})
}

func (handler *Handler) GetPartnership(c *fiber.Ctx) error {
	partnershipID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid partnership id")
	}

	partnership, err := handler.partnerships.GetPartnership(partnershipID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(partnership)
}

// GetProgress reports the partnership's goal completion for the current week,
// optionally folding in an in-flight session via sitLength and elapsed query
// parameters (both in seconds).
func (handler *Handler) GetProgress(c *fiber.Ctx) error {
	partnershipID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid partnership id")
	}
	if _, err := handler.partnerships.GetPartnership(partnershipID); err != nil {
		return serviceError(c, err)
	}

	week, err := handler.weeks.GetCurrentWeek(partnershipID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	if week == nil {
		return c.JSON(fiber.Map{
			"week":            nil,
			"currentProgress": 0,
			"sessionProgress": 0,
		})
	}

	sitLength := parseFloatQuery(c, "sitLength")
	elapsed := parseFloatQuery(c, "elapsed")
	progress := services.WeekProgressWithSession(*week, sitLength, elapsed)

	return c.JSON(fiber.Map{
		"week":            week,
		"currentProgress": progress.CurrentProgress,
		"sessionProgress": progress.SessionProgress,
	})
}

func (handler *Handler) GetWeekSettings(c *fiber.Ctx) error {
	partnershipID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid partnership id")
	}

	partnership, err := handler.weeks.WeekSettings(partnershipID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"autoCreateWeeks":         partnership.AutoCreateWeeks,
		"weekCreationPausedUntil": partnership.WeekCreationPausedUntil,
	})
}

type weekSettingsPayload struct {
	AutoCreateWeeks *bool `json:"autoCreateWeeks"`
	// WeekCreationPausedUntil accepts an RFC 3339 timestamp, or an empty
	// string to clear an active pause. Absent leaves the pause untouched.
	WeekCreationPausedUntil *string `json:"weekCreationPausedUntil"`
}

func (handler *Handler) UpdateWeekSettings(c *fiber.Ctx) error {
	partnershipID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid partnership id")
	}

	var payload weekSettingsPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.AutoCreateWeeks == nil && payload.WeekCreationPausedUntil == nil {
		return apiError(c, fiber.StatusBadRequest, "at least one setting is required")
	}

	var pausedUntil *time.Time
	clearPause := false
	if payload.WeekCreationPausedUntil != nil {
		raw := strings.TrimSpace(*payload.WeekCreationPausedUntil)
		if raw == "" {
			clearPause = true
		} else {
			parsed, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				return apiError(c, fiber.StatusBadRequest, "weekCreationPausedUntil must be RFC 3339")
			}
			pausedUntil = &parsed
		}
	}

	partnership, err := handler.weeks.UpdateWeekSettings(partnershipID, payload.AutoCreateWeeks, pausedUntil, clearPause)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"autoCreateWeeks":         partnership.AutoCreateWeeks,
		"weekCreationPausedUntil": partnership.WeekCreationPausedUntil,
	})
}

func parseFloatQuery(c *fiber.Ctx, name string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(c.Query(name)), 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
