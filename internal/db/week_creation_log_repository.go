package db

import (
	"errors"
	"time"

	"github.com/idolanuel5885/serenity-plus/internal/models"
	"gorm.io/gorm"
)

type WeekCreationLogRepository struct {
	database *gorm.DB
}

func NewWeekCreationLogRepository(database *gorm.DB) *WeekCreationLogRepository {
	return &WeekCreationLogRepository{database: database}
}

func (repo *WeekCreationLogRepository) Append(entry *models.WeekCreationLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return repo.database.Create(entry).Error
}

// CountByStatusSince buckets audit entries created after the cutoff.
func (repo *WeekCreationLogRepository) CountByStatusSince(cutoff time.Time) (map[string]int64, error) {
	type statusCount struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	rows := make([]statusCount, 0)
	if err := repo.database.Model(&models.WeekCreationLog{}).
		Select("status, COUNT(*) AS count").
		Where("createdat >= ?", cutoff).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// LastActivityAt returns the timestamp of the newest audit entry, or nil when
// the log is empty.
func (repo *WeekCreationLogRepository) LastActivityAt() (*time.Time, error) {
	var entry models.WeekCreationLog
	err := repo.database.Order("createdat DESC, id DESC").First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry.CreatedAt, nil
}
