package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/idolanuel5885/serenity-plus/internal/services"
)

const operatorTokenTTL = 12 * time.Hour

type Handler struct {
	accounts     *services.AccountService
	partnerships *services.PartnershipService
	weeks        *services.WeekService
	sessions     *services.SessionService
	health       *services.HealthService
	recovery     *services.RecoveryService

	secretKey       []byte
	operatorKeyHash string
}

type HandlerConfig struct {
	Accounts     *services.AccountService
	Partnerships *services.PartnershipService
	Weeks        *services.WeekService
	Sessions     *services.SessionService
	Health       *services.HealthService
	Recovery     *services.RecoveryService

	// SecretKey signs operator JWTs; OperatorKeyHash is the bcrypt hash the
	// operator login key is checked against.
	SecretKey       string
	OperatorKeyHash string
}

func NewHandler(config HandlerConfig) *Handler {
	return &Handler{
		accounts:        config.Accounts,
		partnerships:    config.Partnerships,
		weeks:           config.Weeks,
		sessions:        config.Sessions,
		health:          config.Health,
		recovery:        config.Recovery,
		secretKey:       []byte(config.SecretKey),
		operatorKeyHash: config.OperatorKeyHash,
	}
}

type operatorClaims struct {
	Operator bool `json:"operator"`
	jwt.RegisteredClaims
}
