package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/idolanuel5885/serenity-plus/internal/db"
	"github.com/idolanuel5885/serenity-plus/internal/models"
	"gorm.io/gorm"
)

var ErrPartnershipNotFound = errors.New("partnership not found")

type WeekStore interface {
	CurrentWeek(partnershipID uint, now time.Time) (*models.Week, error)
	MaxWeekNumber(partnershipID uint) (int, error)
	Create(week *models.Week) error
}

type WeekPartnershipStore interface {
	FindByID(partnershipID uint) (models.Partnership, error)
	UpdateWeekSettings(partnershipID uint, updates map[string]any) error
}

// WeekService owns the lifecycle of a partnership's tracking windows: one
// current week at a time, monotonic numbering, frozen goals.
type WeekService struct {
	weeks        WeekStore
	partnerships WeekPartnershipStore
	now          func() time.Time
}

func NewWeekService(weeks WeekStore, partnerships WeekPartnershipStore) *WeekService {
	return &WeekService{weeks: weeks, partnerships: partnerships, now: time.Now}
}

// GetCurrentWeek resolves the partnership's current week, or nil when the
// partnership has none yet.
func (service *WeekService) GetCurrentWeek(partnershipID uint) (*models.Week, error) {
	return service.weeks.CurrentWeek(partnershipID, service.now())
}

// EnsureCurrentWeek returns the current week, creating it on demand when
// missing. On-demand creation is the guaranteed source of truth: it happens
// regardless of the auto-creation flag and pause window, which only govern
// the scheduler. A gap while auto-creation is live means the scheduler fell
// behind, so that path logs a warning for operators.
func (service *WeekService) EnsureCurrentWeek(partnershipID uint, weeklyGoal int) (models.Week, error) {
	week, err := service.weeks.CurrentWeek(partnershipID, service.now())
	if err != nil {
		return models.Week{}, fmt.Errorf("resolve current week: %w", err)
	}
	if week != nil {
		return *week, nil
	}

	partnership, err := service.partnerships.FindByID(partnershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Week{}, ErrPartnershipNotFound
		}
		return models.Week{}, fmt.Errorf("load partnership: %w", err)
	}

	if service.autoCreationLive(partnership) {
		log.Printf("WARN: partnership %d had no current week despite live auto-creation, creating on demand", partnershipID)
	} else {
		log.Printf("creating week on demand for partnership %d (auto-creation disabled or paused)", partnershipID)
	}

	return service.CreateWeek(partnershipID, weeklyGoal)
}

// CreateWeek appends the next week to the partnership's ledger. The window
// starts at wall-clock now, not a calendar boundary, and spans exactly seven
// days. A concurrent creation losing the (partnershipid, weeknumber) unique
// race is resolved by refetching the winner's row.
func (service *WeekService) CreateWeek(partnershipID uint, weeklyGoal int) (models.Week, error) {
	maxNumber, err := service.weeks.MaxWeekNumber(partnershipID)
	if err != nil {
		return models.Week{}, fmt.Errorf("resolve max week number: %w", err)
	}

	now := service.now()
	week := models.Week{
		PartnershipID: partnershipID,
		WeekNumber:    maxNumber + 1,
		WeekStart:     now,
		WeekEnd:       now.Add(models.WeekLength),
		WeeklyGoal:    weeklyGoal,
	}

	if err := service.weeks.Create(&week); err != nil {
		if db.IsUniqueViolation(err) {
			existing, refetchErr := service.weeks.CurrentWeek(partnershipID, now)
			if refetchErr != nil {
				return models.Week{}, fmt.Errorf("refetch week after duplicate insert: %w", refetchErr)
			}
			if existing != nil {
				return *existing, nil
			}
		}
		return models.Week{}, fmt.Errorf("create week: %w", err)
	}

	return week, nil
}

// WeekSettings reads the scheduler-facing flags for a partnership.
func (service *WeekService) WeekSettings(partnershipID uint) (models.Partnership, error) {
	partnership, err := service.partnerships.FindByID(partnershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Partnership{}, ErrPartnershipNotFound
		}
		return models.Partnership{}, fmt.Errorf("load partnership: %w", err)
	}
	return partnership, nil
}

// UpdateWeekSettings updates the auto-creation flag and/or pause timestamp.
// At least one of the two must be provided.
func (service *WeekService) UpdateWeekSettings(partnershipID uint, autoCreateWeeks *bool, pausedUntil *time.Time, clearPause bool) (models.Partnership, error) {
	if _, err := service.WeekSettings(partnershipID); err != nil {
		return models.Partnership{}, err
	}

	updates := make(map[string]any, 2)
	if autoCreateWeeks != nil {
		updates["autocreateweeks"] = *autoCreateWeeks
	}
	if pausedUntil != nil {
		updates["weekcreationpauseduntil"] = *pausedUntil
	} else if clearPause {
		updates["weekcreationpauseduntil"] = nil
	}
	if len(updates) == 0 {
		return models.Partnership{}, errors.New("no week settings provided")
	}

	if err := service.partnerships.UpdateWeekSettings(partnershipID, updates); err != nil {
		return models.Partnership{}, fmt.Errorf("update week settings: %w", err)
	}
	return service.WeekSettings(partnershipID)
}

func (service *WeekService) autoCreationLive(partnership models.Partnership) bool {
	if !partnership.AutoCreateWeeks {
		return false
	}
	paused := partnership.WeekCreationPausedUntil
	return paused == nil || !service.now().Before(*paused)
}
