package api

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// OperatorLogin exchanges the operator key for a short-lived bearer token.
// With no key hash configured the operator surface is closed entirely.
func (handler *Handler) OperatorLogin(c *fiber.Ctx) error {
	if handler.operatorKeyHash == "" {
		return apiError(c, fiber.StatusForbidden, "operator access is not configured")
	}

	var payload struct {
		Key string `json:"key"`
	}
	if err := c.BodyParser(&payload); err != nil || strings.TrimSpace(payload.Key) == "" {
		return apiError(c, fiber.StatusBadRequest, "key is required")
	}

	if bcrypt.CompareHashAndPassword([]byte(handler.operatorKeyHash), []byte(payload.Key)) != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid operator key")
	}

	token, err := handler.buildOperatorToken()
	if err != nil {
		log.Printf("build operator token failed: %v", err)
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(fiber.Map{"token": token})
}

// OperatorRequired guards operator-only routes with a bearer JWT.
func (handler *Handler) OperatorRequired(c *fiber.Ctx) error {
	raw := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer"))
	if raw == "" {
		return apiError(c, fiber.StatusUnauthorized, "operator token required")
	}

	claims := operatorClaims{}
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid || !claims.Operator {
		return apiError(c, fiber.StatusUnauthorized, "invalid operator token")
	}

	return c.Next()
}

func (handler *Handler) buildOperatorToken() (string, error) {
	now := time.Now()
	claims := operatorClaims{
		Operator: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(now.Add(operatorTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}
