package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/idolanuel5885/serenity-plus/internal/models"
	"github.com/idolanuel5885/serenity-plus/internal/security"
	"gorm.io/gorm"
)

var ErrEmptyReturnToken = errors.New("return token is required")

type RecoveryUserStore interface {
	FindByID(userID uint) (models.User, error)
	FindByReturnToken(token string) (models.User, error)
	UpdateReturnToken(userID uint, token string) error
}

// ReturnLinkMailer sends the user their return link. Best-effort collaborator.
type ReturnLinkMailer interface {
	SendReturnLink(email string, returnToken string, userName string) error
}

// RecoveryService rotates and resolves return tokens, the passwordless way a
// user reclaims their identity from a new device. A token stays valid for
// repeated use until the next rotation, so the same link works across
// devices; rotation immediately invalidates the previous token.
type RecoveryService struct {
	users  RecoveryUserStore
	mailer ReturnLinkMailer
}

func NewRecoveryService(users RecoveryUserStore, mailer ReturnLinkMailer) *RecoveryService {
	return &RecoveryService{users: users, mailer: mailer}
}

// IssueOrRotateToken overwrites the user's stored token with a fresh one and
// mails the return link when a mailer is configured.
func (service *RecoveryService) IssueOrRotateToken(userID uint) (string, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	token, err := security.RandomReturnToken()
	if err != nil {
		return "", fmt.Errorf("generate return token: %w", err)
	}
	if err := service.users.UpdateReturnToken(user.ID, token); err != nil {
		return "", fmt.Errorf("store return token: %w", err)
	}

	if service.mailer != nil {
		if err := service.mailer.SendReturnLink(user.Email, token, user.Name); err != nil {
			log.Printf("return link email to user %d failed: %v", user.ID, err)
		}
	}

	return token, nil
}

// Resolve returns the user owning the token, or nil when no user matches.
func (service *RecoveryService) Resolve(token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyReturnToken
	}

	user, err := service.users.FindByReturnToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve return token: %w", err)
	}
	return &user, nil
}
