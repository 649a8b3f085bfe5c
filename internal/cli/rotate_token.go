package cli

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

// RunRotateReturnTokenCommand rotates a user's return token from the command
// line, for support cases where the user lost access to their inbox. The
// previous token stops resolving immediately.
func RunRotateReturnTokenCommand(dbPath string, email string) error {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	var user models.User
	if err := database.Where("email = ?", normalizedEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	token, err := security.RandomReturnToken()
	if err != nil {
		return fmt.Errorf("generate return token: %w", err)
	}

	if err := database.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("return_token", token).Error; err != nil {
		return fmt.Errorf("store return token: %w", err)
	}

	fmt.Println("Return token rotated")
	fmt.Printf("New token: %s\n", token)
	fmt.Println("Any previously shared return link is now invalid.")

	return nil
}
