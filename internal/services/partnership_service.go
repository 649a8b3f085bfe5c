package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/idolanuel5885/serenity-plus/internal/db"
	"github.com/idolanuel5885/serenity-plus/internal/models"
	"gorm.io/gorm"
)

var ErrInviteCodeNotFound = errors.New("invite code not found")

type PartnershipStore interface {
	Create(partnership *models.Partnership) error
	FindByID(partnershipID uint) (models.Partnership, error)
	FindBetween(firstUserID uint, secondUserID uint) (models.Partnership, error)
}

type PartnershipUserStore interface {
	FindByID(userID uint) (models.User, error)
	FindByInviteCode(inviteCode string) (models.User, error)
	UpdatePairingStatus(status string, userIDs ...uint) error
}

// PartnershipService pairs users: it resolves invite codes, deduplicates
// undirected pairs, and bootstraps the first tracking week.
type PartnershipService struct {
	partnerships PartnershipStore
	users        PartnershipUserStore
	weeks        *WeekService
}

func NewPartnershipService(partnerships PartnershipStore, users PartnershipUserStore, weeks *WeekService) *PartnershipService {
	return &PartnershipService{partnerships: partnerships, users: users, weeks: weeks}
}

// CreateOrGetPartnership redeems an invite code for the requester. Calling it
// twice for the same pair, in either direction, returns the same partnership.
// Two simultaneous calls are deduplicated by the store's undirected unique
// index: the loser of the insert race refetches the winner's row instead of
// surfacing a conflict.
func (service *PartnershipService) CreateOrGetPartnership(requesterID uint, inviteCode string) (models.Partnership, error) {
	invitee, err := service.users.FindByID(requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Partnership{}, ErrUserNotFound
		}
		return models.Partnership{}, fmt.Errorf("load requester: %w", err)
	}

	inviter, err := service.users.FindByInviteCode(strings.ToUpper(strings.TrimSpace(inviteCode)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Partnership{}, ErrInviteCodeNotFound
		}
		return models.Partnership{}, fmt.Errorf("resolve invite code: %w", err)
	}
	if inviter.ID == invitee.ID {
		// Redeeming your own code resolves to nobody to pair with.
		return models.Partnership{}, ErrInviteCodeNotFound
	}

	partnership, err := service.partnerships.FindBetween(invitee.ID, inviter.ID)
	if err == nil {
		return service.finalize(partnership, invitee, inviter)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Partnership{}, fmt.Errorf("look up existing partnership: %w", err)
	}

	partnership = models.Partnership{
		UserID:          invitee.ID,
		PartnerID:       inviter.ID,
		AutoCreateWeeks: true,
	}
	if err := service.partnerships.Create(&partnership); err != nil {
		if !db.IsUniqueViolation(err) {
			return models.Partnership{}, fmt.Errorf("create partnership: %w", err)
		}
		// Lost a concurrent accept-invite race; the pair row exists now.
		partnership, err = service.partnerships.FindBetween(invitee.ID, inviter.ID)
		if err != nil {
			return models.Partnership{}, fmt.Errorf("refetch partnership after duplicate insert: %w", err)
		}
	}

	return service.finalize(partnership, invitee, inviter)
}

// GetPartnership loads a partnership by id.
func (service *PartnershipService) GetPartnership(partnershipID uint) (models.Partnership, error) {
	partnership, err := service.partnerships.FindByID(partnershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Partnership{}, ErrPartnershipNotFound
		}
		return models.Partnership{}, fmt.Errorf("load partnership: %w", err)
	}
	return partnership, nil
}

// finalize flips both users to paired and guarantees week 1 exists. The goal
// frozen into a newly created week is the combined weekly target at this
// moment; later target changes never touch existing weeks.
func (service *PartnershipService) finalize(partnership models.Partnership, invitee models.User, inviter models.User) (models.Partnership, error) {
	if err := service.users.UpdatePairingStatus(models.PairingPaired, invitee.ID, inviter.ID); err != nil {
		return models.Partnership{}, fmt.Errorf("mark users paired: %w", err)
	}

	combinedGoal := invitee.WeeklyTarget + inviter.WeeklyTarget
	if _, err := service.weeks.EnsureCurrentWeek(partnership.ID, combinedGoal); err != nil {
		return models.Partnership{}, fmt.Errorf("ensure first week: %w", err)
	}

	log.Printf("partnership %d active between user %d and user %d (combined goal %d)",
		partnership.ID, invitee.ID, inviter.ID, combinedGoal)
	return partnership, nil
}
