package services

import (
	"sort"
	"time"

	"github.com/idolanuel5885/serenity-plus/internal/models"
	"gorm.io/gorm"
)

type stubUserStore struct {
	users         map[uint]models.User
	statusByUser  map[uint]string
	tokenByUser   map[uint]string
	updateTokErr  error
	updatePairErr error
}

func newStubUserStore(users ...models.User) *stubUserStore {
	store := &stubUserStore{
		users:        make(map[uint]models.User, len(users)),
		statusByUser: make(map[uint]string),
		tokenByUser:  make(map[uint]string),
	}
	for _, user := range users {
		store.users[user.ID] = user
	}
	return store
}

func (stub *stubUserStore) FindByID(userID uint) (models.User, error) {
	user, ok := stub.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (stub *stubUserStore) FindByInviteCode(code string) (models.User, error) {
	for _, user := range stub.users {
		if user.InviteCode == code {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubUserStore) FindByReturnToken(token string) (models.User, error) {
	for userID, stored := range stub.tokenByUser {
		if stored == token {
			return stub.users[userID], nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubUserStore) UpdatePairingStatus(status string, userIDs ...uint) error {
	if stub.updatePairErr != nil {
		return stub.updatePairErr
	}
	for _, userID := range userIDs {
		stub.statusByUser[userID] = status
	}
	return nil
}

func (stub *stubUserStore) UpdateReturnToken(userID uint, token string) error {
	if stub.updateTokErr != nil {
		return stub.updateTokErr
	}
	stub.tokenByUser[userID] = token
	user := stub.users[userID]
	user.ReturnToken = &token
	stub.users[userID] = user
	return nil
}

type stubPartnershipStore struct {
	rows            []models.Partnership
	nextID          uint
	createErr       error
	createErrOnce   bool
	findBetweenMiss int
	withoutWeek     []models.Partnership
	withoutWeekErr  error
	settingsApplied map[uint]map[string]any
}

func (stub *stubPartnershipStore) Create(partnership *models.Partnership) error {
	if stub.createErr != nil {
		err := stub.createErr
		if stub.createErrOnce {
			stub.createErr = nil
		}
		return err
	}
	stub.nextID++
	partnership.ID = stub.nextID
	partnership.CreatedAt = time.Now()
	stub.rows = append(stub.rows, *partnership)
	return nil
}

func (stub *stubPartnershipStore) FindByID(partnershipID uint) (models.Partnership, error) {
	for _, row := range stub.rows {
		if row.ID == partnershipID {
			return row, nil
		}
	}
	return models.Partnership{}, gorm.ErrRecordNotFound
}

func (stub *stubPartnershipStore) FindBetween(firstUserID uint, secondUserID uint) (models.Partnership, error) {
	if stub.findBetweenMiss > 0 {
		stub.findBetweenMiss--
		return models.Partnership{}, gorm.ErrRecordNotFound
	}
	for _, row := range stub.rows {
		if (row.UserID == firstUserID && row.PartnerID == secondUserID) ||
			(row.UserID == secondUserID && row.PartnerID == firstUserID) {
			return row, nil
		}
	}
	return models.Partnership{}, gorm.ErrRecordNotFound
}

func (stub *stubPartnershipStore) ListWithoutCurrentWeek(time.Time) ([]models.Partnership, error) {
	if stub.withoutWeekErr != nil {
		return nil, stub.withoutWeekErr
	}
	return stub.withoutWeek, nil
}

func (stub *stubPartnershipStore) UpdateWeekSettings(partnershipID uint, updates map[string]any) error {
	if stub.settingsApplied == nil {
		stub.settingsApplied = make(map[uint]map[string]any)
	}
	stub.settingsApplied[partnershipID] = updates

	for index := range stub.rows {
		if stub.rows[index].ID != partnershipID {
			continue
		}
		if value, ok := updates["autocreateweeks"]; ok {
			stub.rows[index].AutoCreateWeeks = value.(bool)
		}
		if value, ok := updates["weekcreationpauseduntil"]; ok {
			if value == nil {
				stub.rows[index].WeekCreationPausedUntil = nil
			} else {
				paused := value.(time.Time)
				stub.rows[index].WeekCreationPausedUntil = &paused
			}
		}
	}
	return nil
}

type stubWeekStore struct {
	weeks         []models.Week
	nextID        uint
	createErr     error
	createErrOnce bool
}

func (stub *stubWeekStore) CurrentWeek(partnershipID uint, now time.Time) (*models.Week, error) {
	candidates := make([]models.Week, 0, len(stub.weeks))
	for _, week := range stub.weeks {
		if week.PartnershipID == partnershipID {
			candidates = append(candidates, week)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	for _, week := range candidates {
		if week.Contains(now) {
			week := week
			return &week, nil
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].ID > candidates[j].ID
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	latest := candidates[0]
	return &latest, nil
}

func (stub *stubWeekStore) FindByID(weekID uint) (models.Week, error) {
	for _, week := range stub.weeks {
		if week.ID == weekID {
			return week, nil
		}
	}
	return models.Week{}, gorm.ErrRecordNotFound
}

func (stub *stubWeekStore) MaxWeekNumber(partnershipID uint) (int, error) {
	maxNumber := 0
	for _, week := range stub.weeks {
		if week.PartnershipID == partnershipID && week.WeekNumber > maxNumber {
			maxNumber = week.WeekNumber
		}
	}
	return maxNumber, nil
}

func (stub *stubWeekStore) Create(week *models.Week) error {
	if stub.createErr != nil {
		err := stub.createErr
		if stub.createErrOnce {
			stub.createErr = nil
		}
		return err
	}
	stub.nextID++
	week.ID = stub.nextID
	if week.CreatedAt.IsZero() {
		week.CreatedAt = week.WeekStart
	}
	stub.weeks = append(stub.weeks, *week)
	return nil
}

func (stub *stubWeekStore) IncrementInviteeSits(weekID uint) error {
	return stub.increment(weekID, true)
}

func (stub *stubWeekStore) IncrementInviterSits(weekID uint) error {
	return stub.increment(weekID, false)
}

func (stub *stubWeekStore) increment(weekID uint, invitee bool) error {
	for index := range stub.weeks {
		if stub.weeks[index].ID != weekID {
			continue
		}
		if invitee {
			stub.weeks[index].InviteeSits++
		} else {
			stub.weeks[index].InviterSits++
		}
		stub.weeks[index].GoalMet = stub.weeks[index].TotalSits() >= stub.weeks[index].WeeklyGoal
		return nil
	}
	return gorm.ErrRecordNotFound
}

type stubSessionStore struct {
	sessions []models.Session
	nextID   uint
}

func (stub *stubSessionStore) Create(session *models.Session) error {
	stub.nextID++
	session.ID = stub.nextID
	stub.sessions = append(stub.sessions, *session)
	return nil
}

func (stub *stubSessionStore) FindByID(sessionID uint) (models.Session, error) {
	for _, session := range stub.sessions {
		if session.ID == sessionID {
			return session, nil
		}
	}
	return models.Session{}, gorm.ErrRecordNotFound
}

func (stub *stubSessionStore) FindLatestOpen(userID uint, partnershipID uint) (models.Session, error) {
	for index := len(stub.sessions) - 1; index >= 0; index-- {
		session := stub.sessions[index]
		if session.UserID == userID && session.PartnershipID == partnershipID && !session.IsCompleted {
			return session, nil
		}
	}
	return models.Session{}, gorm.ErrRecordNotFound
}

func (stub *stubSessionStore) MarkCompleted(sessionID uint, completedAt time.Time) (bool, error) {
	for index := range stub.sessions {
		if stub.sessions[index].ID != sessionID {
			continue
		}
		if stub.sessions[index].IsCompleted {
			return false, nil
		}
		stub.sessions[index].IsCompleted = true
		stub.sessions[index].CompletedAt = &completedAt
		return true, nil
	}
	return false, gorm.ErrRecordNotFound
}

type stubAuditStore struct {
	entries      []models.WeekCreationLog
	counts       map[string]int64
	lastActivity *time.Time
}

func (stub *stubAuditStore) Append(entry *models.WeekCreationLog) error {
	entry.ID = uint(len(stub.entries) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	stub.entries = append(stub.entries, *entry)
	return nil
}

func (stub *stubAuditStore) CountByStatusSince(time.Time) (map[string]int64, error) {
	if stub.counts == nil {
		return map[string]int64{}, nil
	}
	return stub.counts, nil
}

func (stub *stubAuditStore) LastActivityAt() (*time.Time, error) {
	return stub.lastActivity, nil
}
