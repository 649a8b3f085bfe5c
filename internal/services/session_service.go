package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/idolanuel5885/serenity-plus/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSitLength = errors.New("sit length must be positive")
	ErrNotInPartnership = errors.New("user is not part of this partnership")
	ErrNoOpenSession    = errors.New("no open session to complete")
)

type SessionStore interface {
	Create(session *models.Session) error
	FindByID(sessionID uint) (models.Session, error)
	FindLatestOpen(userID uint, partnershipID uint) (models.Session, error)
	MarkCompleted(sessionID uint, completedAt time.Time) (bool, error)
}

type SessionWeekStore interface {
	FindByID(weekID uint) (models.Week, error)
	IncrementInviteeSits(weekID uint) error
	IncrementInviterSits(weekID uint) error
}

type SessionUserStore interface {
	FindByID(userID uint) (models.User, error)
}

type SessionPartnershipStore interface {
	FindByID(partnershipID uint) (models.Partnership, error)
}

// PushDispatcher delivers a best-effort push notification to one user.
type PushDispatcher interface {
	SendPush(title string, body string, targetUserID uint) error
}

// ProgressEvent is published after a completed sit changes a week's totals.
type ProgressEvent struct {
	PartnershipID uint    `json:"partnershipId"`
	WeekID        uint    `json:"weekId"`
	InviteeSits   int     `json:"inviteeSits"`
	InviterSits   int     `json:"inviterSits"`
	TotalSits     int     `json:"totalSits"`
	GoalMet       bool    `json:"goalMet"`
	Progress      float64 `json:"progress"`
}

// ProgressPublisher fans completed-sit updates out to interested listeners.
type ProgressPublisher interface {
	PublishProgress(event ProgressEvent) error
}

// SessionService opens sits against the current week and closes them exactly
// once, attributing the completed sit to the right side of the partnership.
type SessionService struct {
	sessions     SessionStore
	weeks        SessionWeekStore
	users        SessionUserStore
	partnerships SessionPartnershipStore
	weekService  *WeekService
	push         PushDispatcher
	publisher    ProgressPublisher
	now          func() time.Time
}

func NewSessionService(
	sessions SessionStore,
	weeks SessionWeekStore,
	users SessionUserStore,
	partnerships SessionPartnershipStore,
	weekService *WeekService,
	push PushDispatcher,
	publisher ProgressPublisher,
) *SessionService {
	return &SessionService{
		sessions:     sessions,
		weeks:        weeks,
		users:        users,
		partnerships: partnerships,
		weekService:  weekService,
		push:         push,
		publisher:    publisher,
		now:          time.Now,
	}
}

// StartSession opens a sit for the user against the partnership's current
// week, creating the week on demand if needed.
func (service *SessionService) StartSession(userID uint, partnershipID uint, sitLength int) (models.Session, error) {
	if sitLength <= 0 {
		return models.Session{}, ErrInvalidSitLength
	}

	partnership, invitee, inviter, err := service.resolvePartnershipUsers(userID, partnershipID)
	if err != nil {
		return models.Session{}, err
	}

	week, err := service.weekService.EnsureCurrentWeek(partnership.ID, invitee.WeeklyTarget+inviter.WeeklyTarget)
	if err != nil {
		return models.Session{}, err
	}

	session := models.Session{
		UserID:        userID,
		PartnershipID: partnership.ID,
		WeekID:        week.ID,
		SitLength:     sitLength,
	}
	if err := service.sessions.Create(&session); err != nil {
		return models.Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// CompleteResult reports the week totals after a completion attempt.
type CompleteResult struct {
	Completed   bool    `json:"completed"`
	Duplicate   bool    `json:"duplicate"`
	InviteeSits int     `json:"inviteeSits"`
	InviterSits int     `json:"inviterSits"`
	TotalSits   int     `json:"totalSits"`
	GoalMet     bool    `json:"goalMet"`
	Progress    float64 `json:"progress"`
}

// CompleteSession closes a sit. With completed=false nothing is persisted:
// an interrupted sit stays open and simply never transitions. With
// completed=true the session flips exactly once; a repeat call reports
// Duplicate and leaves every counter untouched.
func (service *SessionService) CompleteSession(userID uint, partnershipID uint, sessionID *uint, completed bool) (CompleteResult, error) {
	partnership, invitee, inviter, err := service.resolvePartnershipUsers(userID, partnershipID)
	if err != nil {
		return CompleteResult{}, err
	}

	if !completed {
		return CompleteResult{}, nil
	}

	session, err := service.resolveSession(userID, partnership.ID, sessionID)
	if err != nil {
		return CompleteResult{}, err
	}

	if session.IsCompleted {
		return service.resultForWeek(session.WeekID, true, true)
	}

	transitioned, err := service.sessions.MarkCompleted(session.ID, service.now())
	if err != nil {
		return CompleteResult{}, fmt.Errorf("mark session completed: %w", err)
	}
	if !transitioned {
		// Lost a concurrent completion race for the same session.
		return service.resultForWeek(session.WeekID, true, true)
	}

	week, err := service.weekService.EnsureCurrentWeek(partnership.ID, invitee.WeeklyTarget+inviter.WeeklyTarget)
	if err != nil {
		return CompleteResult{}, err
	}

	if userID == partnership.UserID {
		err = service.weeks.IncrementInviteeSits(week.ID)
	} else {
		err = service.weeks.IncrementInviterSits(week.ID)
	}
	if err != nil {
		return CompleteResult{}, fmt.Errorf("increment sit counter: %w", err)
	}

	result, err := service.resultForWeek(week.ID, true, false)
	if err != nil {
		return CompleteResult{}, err
	}

	service.notifyPartner(partnership, userID, invitee, inviter, result)
	service.publishProgress(partnership.ID, week.ID, result)

	return result, nil
}

func (service *SessionService) resolvePartnershipUsers(userID uint, partnershipID uint) (models.Partnership, models.User, models.User, error) {
	if _, err := service.users.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Partnership{}, models.User{}, models.User{}, ErrUserNotFound
		}
		return models.Partnership{}, models.User{}, models.User{}, fmt.Errorf("load user: %w", err)
	}

	partnership, err := service.partnerships.FindByID(partnershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Partnership{}, models.User{}, models.User{}, ErrPartnershipNotFound
		}
		return models.Partnership{}, models.User{}, models.User{}, fmt.Errorf("load partnership: %w", err)
	}
	if !partnership.Involves(userID) {
		return models.Partnership{}, models.User{}, models.User{}, ErrNotInPartnership
	}

	invitee, err := service.users.FindByID(partnership.UserID)
	if err != nil {
		return models.Partnership{}, models.User{}, models.User{}, fmt.Errorf("load invitee: %w", err)
	}
	inviter, err := service.users.FindByID(partnership.PartnerID)
	if err != nil {
		return models.Partnership{}, models.User{}, models.User{}, fmt.Errorf("load inviter: %w", err)
	}

	return partnership, invitee, inviter, nil
}

func (service *SessionService) resolveSession(userID uint, partnershipID uint, sessionID *uint) (models.Session, error) {
	if sessionID != nil {
		session, err := service.sessions.FindByID(*sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Session{}, ErrSessionNotFound
			}
			return models.Session{}, fmt.Errorf("load session: %w", err)
		}
		if session.UserID != userID || session.PartnershipID != partnershipID {
			return models.Session{}, ErrSessionNotFound
		}
		return session, nil
	}

	session, err := service.sessions.FindLatestOpen(userID, partnershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Session{}, ErrNoOpenSession
		}
		return models.Session{}, fmt.Errorf("find open session: %w", err)
	}
	return session, nil
}

func (service *SessionService) resultForWeek(weekID uint, completed bool, duplicate bool) (CompleteResult, error) {
	week, err := service.weeks.FindByID(weekID)
	if err != nil {
		return CompleteResult{}, fmt.Errorf("load week totals: %w", err)
	}

	return CompleteResult{
		Completed:   completed,
		Duplicate:   duplicate,
		InviteeSits: week.InviteeSits,
		InviterSits: week.InviterSits,
		TotalSits:   week.TotalSits(),
		GoalMet:     week.GoalMet,
		Progress:    WeekProgress(week).CurrentProgress,
	}, nil
}

// notifyPartner pushes a best-effort heads-up to the other side of the pair.
// Delivery failures are logged and never affect the completion.
func (service *SessionService) notifyPartner(partnership models.Partnership, userID uint, invitee models.User, inviter models.User, result CompleteResult) {
	if service.push == nil {
		return
	}

	sitter, partner := invitee, inviter
	if userID == partnership.PartnerID {
		sitter, partner = inviter, invitee
	}

	title := fmt.Sprintf("%s just finished a sit", sitter.Name)
	body := fmt.Sprintf("You two are at %d of this week's goal.", result.TotalSits)
	if result.GoalMet {
		body = "Weekly goal reached. Nice work, both of you."
	}
	if err := service.push.SendPush(title, body, partner.ID); err != nil {
		log.Printf("push to user %d failed: %v", partner.ID, err)
	}
}

func (service *SessionService) publishProgress(partnershipID uint, weekID uint, result CompleteResult) {
	if service.publisher == nil {
		return
	}
	event := ProgressEvent{
		PartnershipID: partnershipID,
		WeekID:        weekID,
		InviteeSits:   result.InviteeSits,
		InviterSits:   result.InviterSits,
		TotalSits:     result.TotalSits,
		GoalMet:       result.GoalMet,
		Progress:      result.Progress,
	}
	if err := service.publisher.PublishProgress(event); err != nil {
		log.Printf("publish progress for partnership %d failed: %v", partnershipID, err)
	}
}
