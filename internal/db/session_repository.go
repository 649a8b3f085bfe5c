package db

import (
	"time"

	"github.com/idolanuel5885/serenity-plus/internal/models"
	"gorm.io/gorm"
)

type SessionRepository struct {
	database *gorm.DB
}

func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{database: database}
}

func (repo *SessionRepository) Create(session *models.Session) error {
	return repo.database.Create(session).Error
}

func (repo *SessionRepository) FindByID(sessionID uint) (models.Session, error) {
	var session models.Session
	if err := repo.database.First(&session, sessionID).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// FindLatestOpen returns the newest not-yet-completed session for the user in
// the partnership. Used as the fallback lookup when completion arrives
// without a session id.
func (repo *SessionRepository) FindLatestOpen(userID uint, partnershipID uint) (models.Session, error) {
	var session models.Session
	if err := repo.database.
		Where("userid = ? AND partnershipid = ? AND iscompleted = ?", userID, partnershipID, false).
		Order("id DESC").
		First(&session).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// MarkCompleted flips the session to completed exactly once. The conditional
// WHERE makes the transition idempotent: a second call matches no rows and
// returns false.
func (repo *SessionRepository) MarkCompleted(sessionID uint, completedAt time.Time) (bool, error) {
	result := repo.database.Model(&models.Session{}).
		Where("id = ? AND iscompleted = ?", sessionID, false).
		Updates(map[string]any{
			"iscompleted": true,
			"completedat": completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
