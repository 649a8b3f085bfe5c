package db

import (
	"time"

	"github.com/idolanuel5885/serenity-plus/internal/models"
	"gorm.io/gorm"
)

type WeekRepository struct {
	database *gorm.DB
}

func NewWeekRepository(database *gorm.DB) *WeekRepository {
	return &WeekRepository{database: database}
}

// CurrentWeek resolves the partnership's current week in one statement: a
// week containing now wins, otherwise the most recently created week.
// Returning a stale latest week is a documented degraded-consistency path;
// the scheduler is expected to keep a containing week present.
func (repo *WeekRepository) CurrentWeek(partnershipID uint, now time.Time) (*models.Week, error) {
	var week models.Week
	result := repo.database.Raw(
		`SELECT * FROM weeks
		 WHERE partnershipid = ?
		 ORDER BY (weekstart <= ? AND weekend >= ?) DESC, createdat DESC, id DESC
		 LIMIT 1`,
		partnershipID, now, now,
	).Scan(&week)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &week, nil
}

func (repo *WeekRepository) FindByID(weekID uint) (models.Week, error) {
	var week models.Week
	if err := repo.database.First(&week, weekID).Error; err != nil {
		return models.Week{}, err
	}
	return week, nil
}

func (repo *WeekRepository) MaxWeekNumber(partnershipID uint) (int, error) {
	var maxNumber int
	if err := repo.database.Model(&models.Week{}).
		Where("partnershipid = ?", partnershipID).
		Select("COALESCE(MAX(weeknumber), 0)").
		Scan(&maxNumber).Error; err != nil {
		return 0, err
	}
	return maxNumber, nil
}

func (repo *WeekRepository) Create(week *models.Week) error {
	if week.CreatedAt.IsZero() {
		week.CreatedAt = time.Now()
	}
	return repo.database.Create(week).Error
}

// IncrementInviteeSits adds one invitee sit and recomputes goalmet in a
// single conditional UPDATE, so concurrent completions cannot lose counts.
func (repo *WeekRepository) IncrementInviteeSits(weekID uint) error {
	return repo.database.Exec(
		`UPDATE weeks
		 SET inviteesits = inviteesits + 1,
		     goalmet = CASE WHEN inviteesits + 1 + invitersits >= weeklygoal THEN 1 ELSE 0 END
		 WHERE id = ?`,
		weekID,
	).Error
}

// IncrementInviterSits mirrors IncrementInviteeSits for the inviter counter.
func (repo *WeekRepository) IncrementInviterSits(weekID uint) error {
	return repo.database.Exec(
		`UPDATE weeks
		 SET invitersits = invitersits + 1,
		     goalmet = CASE WHEN inviteesits + invitersits + 1 >= weeklygoal THEN 1 ELSE 0 END
		 WHERE id = ?`,
		weekID,
	).Error
}
