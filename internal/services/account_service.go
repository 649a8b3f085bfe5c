package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/idolanuel5885/serenity-plus/internal/db"
	"github.com/idolanuel5885/serenity-plus/internal/models"
	"github.com/idolanuel5885/serenity-plus/internal/security"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidUserData = errors.New("invalid user data")
)

// inviteCodeAttempts bounds regeneration when a generated code collides with
// an existing one. At 31^8 codes a single retry is already rare.
const inviteCodeAttempts = 5

type AccountUserStore interface {
	Create(user *models.User) error
	FindByID(userID uint) (models.User, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByInviteCode(inviteCode string) (models.User, error)
}

// AccountService is the account directory: identity, per-user targets and the
// shareable invite code.
type AccountService struct {
	users AccountUserStore
}

func NewAccountService(users AccountUserStore) *AccountService {
	return &AccountService{users: users}
}

type NewUserInput struct {
	Name           string
	Email          string
	WeeklyTarget   int
	UsualSitLength int
}

// CreateUser registers a user with a fresh invite code. Users come out of
// creation awaiting a partner: the invite code exists from day one.
func (service *AccountService) CreateUser(input NewUserInput) (models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return models.User{}, fmt.Errorf("%w: name is required", ErrInvalidUserData)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, fmt.Errorf("%w: malformed email", ErrInvalidUserData)
	}
	if input.WeeklyTarget < 1 {
		return models.User{}, fmt.Errorf("%w: weekly target must be at least 1", ErrInvalidUserData)
	}
	if input.UsualSitLength <= 0 {
		input.UsualSitLength = models.DefaultUsualSitLength
	}

	taken, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}

	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := security.RandomInviteCode()
		if err != nil {
			return models.User{}, fmt.Errorf("generate invite code: %w", err)
		}

		user := models.User{
			Name:           name,
			Email:          email,
			WeeklyTarget:   input.WeeklyTarget,
			UsualSitLength: input.UsualSitLength,
			InviteCode:     code,
			PairingStatus:  models.PairingAwaitingPartner,
		}
		if err := service.users.Create(&user); err != nil {
			if db.IsUniqueViolation(err) {
				continue
			}
			return models.User{}, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	}

	return models.User{}, errors.New("could not allocate a unique invite code")
}

// GetUser loads a user by id.
func (service *AccountService) GetUser(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// FindByInviteCode resolves the inviter who owns the code.
func (service *AccountService) FindByInviteCode(code string) (models.User, error) {
	user, err := service.users.FindByInviteCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInviteCodeNotFound
		}
		return models.User{}, fmt.Errorf("resolve invite code: %w", err)
	}
	return user, nil
}
