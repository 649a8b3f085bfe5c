package db

import (
	"time"

	"github.com/idolanuel5885/serenity-plus/internal/models"
	"gorm.io/gorm"
)

type PartnershipRepository struct {
	database *gorm.DB
}

func NewPartnershipRepository(database *gorm.DB) *PartnershipRepository {
	return &PartnershipRepository{database: database}
}

func (repo *PartnershipRepository) Create(partnership *models.Partnership) error {
	if partnership.CreatedAt.IsZero() {
		partnership.CreatedAt = time.Now()
	}
	return repo.database.Create(partnership).Error
}

func (repo *PartnershipRepository) FindByID(partnershipID uint) (models.Partnership, error) {
	var partnership models.Partnership
	if err := repo.database.First(&partnership, partnershipID).Error; err != nil {
		return models.Partnership{}, err
	}
	return partnership, nil
}

// FindBetween looks up the pair row in either direction.
func (repo *PartnershipRepository) FindBetween(firstUserID uint, secondUserID uint) (models.Partnership, error) {
	var partnership models.Partnership
	if err := repo.database.
		Where("(userid = ? AND partnerid = ?) OR (userid = ? AND partnerid = ?)",
			firstUserID, secondUserID, secondUserID, firstUserID).
		First(&partnership).Error; err != nil {
		return models.Partnership{}, err
	}
	return partnership, nil
}

// ListWithoutCurrentWeek returns partnerships that have no week containing
// the given instant, regardless of their auto-creation settings.
func (repo *PartnershipRepository) ListWithoutCurrentWeek(now time.Time) ([]models.Partnership, error) {
	partnerships := make([]models.Partnership, 0)
	if err := repo.database.
		Where("NOT EXISTS (SELECT 1 FROM weeks WHERE weeks.partnershipid = partnerships.id AND weeks.weekstart <= ? AND weeks.weekend >= ?)",
			now, now).
		Find(&partnerships).Error; err != nil {
		return nil, err
	}
	return partnerships, nil
}

func (repo *PartnershipRepository) UpdateWeekSettings(partnershipID uint, updates map[string]any) error {
	return repo.database.Model(&models.Partnership{}).
		Where("id = ?", partnershipID).
		Updates(updates).Error
}
