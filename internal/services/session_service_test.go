package services

import (
	"errors"
	"testing"
	"time"

	"github.com/idolanuel5885/serenity-plus/internal/models"
)

type capturedPush struct {
	title        string
	body         string
	targetUserID uint
}

type stubPushDispatcher struct {
	pushes []capturedPush
	err    error
}

func (stub *stubPushDispatcher) SendPush(title string, body string, targetUserID uint) error {
	stub.pushes = append(stub.pushes, capturedPush{title: title, body: body, targetUserID: targetUserID})
	return stub.err
}

type stubProgressPublisher struct {
	events []ProgressEvent
	err    error
}

func (stub *stubProgressPublisher) PublishProgress(event ProgressEvent) error {
	stub.events = append(stub.events, event)
	return stub.err
}

type sessionFixture struct {
	service      *SessionService
	users        *stubUserStore
	partnerships *stubPartnershipStore
	weeks        *stubWeekStore
	sessions     *stubSessionStore
	push         *stubPushDispatcher
	publisher    *stubProgressPublisher
	now          time.Time
}

// newSessionFixture wires Ana (inviter, target 5) and Ben (invitee, target 3)
// into an active partnership with week 1 already present.
func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	now := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	users := newStubUserStore(
		models.User{ID: 1, Name: "Ana", Email: "ana@example.com", WeeklyTarget: 5, InviteCode: "ANACODE1"},
		models.User{ID: 2, Name: "Ben", Email: "ben@example.com", WeeklyTarget: 3, InviteCode: "BENCODE1"},
	)
	partnerships := &stubPartnershipStore{}
	partnerships.Create(&models.Partnership{UserID: 2, PartnerID: 1, AutoCreateWeeks: true})

	weeks := &stubWeekStore{}
	weeks.Create(&models.Week{
		PartnershipID: 1,
		WeekNumber:    1,
		WeekStart:     now.Add(-24 * time.Hour),
		WeekEnd:       now.Add(-24 * time.Hour).Add(models.WeekLength),
		WeeklyGoal:    8,
	})

	sessions := &stubSessionStore{}
	push := &stubPushDispatcher{}
	publisher := &stubProgressPublisher{}

	weekService := newTestWeekService(weeks, partnerships, now)
	service := NewSessionService(sessions, weeks, users, partnerships, weekService, push, publisher)
	service.now = func() time.Time { return now }

	return &sessionFixture{
		service:      service,
		users:        users,
		partnerships: partnerships,
		weeks:        weeks,
		sessions:     sessions,
		push:         push,
		publisher:    publisher,
		now:          now,
	}
}

func TestStartSessionOpensAgainstCurrentWeek(t *testing.T) {
	fixture := newSessionFixture(t)

	session, err := fixture.service.StartSession(2, 1, 600)
	if err != nil {
		t.Fatalf("StartSession() unexpected error: %v", err)
	}

	if session.WeekID != 1 {
		t.Fatalf("session week = %d, want current week 1", session.WeekID)
	}
	if session.IsCompleted || session.CompletedAt != nil {
		t.Fatalf("new session already completed: %+v", session)
	}
	if session.SitLength != 600 {
		t.Fatalf("sit length = %d, want 600", session.SitLength)
	}
}

func TestStartSessionValidatesInput(t *testing.T) {
	fixture := newSessionFixture(t)

	if _, err := fixture.service.StartSession(2, 1, 0); !errors.Is(err, ErrInvalidSitLength) {
		t.Fatalf("zero sit length: expected ErrInvalidSitLength, got %v", err)
	}
	if _, err := fixture.service.StartSession(99, 1, 600); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user: expected ErrUserNotFound, got %v", err)
	}
	if _, err := fixture.service.StartSession(2, 42, 600); !errors.Is(err, ErrPartnershipNotFound) {
		t.Fatalf("unknown partnership: expected ErrPartnershipNotFound, got %v", err)
	}
}

func TestStartSessionRejectsOutsiders(t *testing.T) {
	fixture := newSessionFixture(t)
	fixture.users.users[3] = models.User{ID: 3, Name: "Eve", Email: "eve@example.com", WeeklyTarget: 2, InviteCode: "EVECODE1"}

	if _, err := fixture.service.StartSession(3, 1, 600); !errors.Is(err, ErrNotInPartnership) {
		t.Fatalf("expected ErrNotInPartnership, got %v", err)
	}
}

func TestCompleteSessionAttributesInviteeSit(t *testing.T) {
	fixture := newSessionFixture(t)

	session, err := fixture.service.StartSession(2, 1, 600)
	if err != nil {
		t.Fatalf("StartSession() unexpected error: %v", err)
	}

	result, err := fixture.service.CompleteSession(2, 1, &session.ID, true)
	if err != nil {
		t.Fatalf("CompleteSession() unexpected error: %v", err)
	}

	if result.InviteeSits != 1 || result.InviterSits != 0 || result.TotalSits != 1 {
		t.Fatalf("totals = %+v, want invitee 1, inviter 0", result)
	}
	if result.GoalMet {
		t.Fatal("goal met after one of eight sits")
	}
	if !almostEqual(result.Progress, 12.5) {
		t.Fatalf("progress = %v, want 12.5", result.Progress)
	}
}

func TestCompleteSessionScenarioReachesGoal(t *testing.T) {
	fixture := newSessionFixture(t)

	// Ben completes one sit, then Ana completes seven across the week.
	session, err := fixture.service.StartSession(2, 1, 600)
	if err != nil {
		t.Fatalf("StartSession() unexpected error: %v", err)
	}
	if _, err := fixture.service.CompleteSession(2, 1, &session.ID, true); err != nil {
		t.Fatalf("invitee completion unexpected error: %v", err)
	}

	var last CompleteResult
	for sit := 0; sit < 7; sit++ {
		anaSession, err := fixture.service.StartSession(1, 1, 900)
		if err != nil {
			t.Fatalf("StartSession() sit %d unexpected error: %v", sit, err)
		}
		last, err = fixture.service.CompleteSession(1, 1, &anaSession.ID, true)
		if err != nil {
			t.Fatalf("CompleteSession() sit %d unexpected error: %v", sit, err)
		}
	}

	if last.TotalSits != 8 || last.InviterSits != 7 || last.InviteeSits != 1 {
		t.Fatalf("final totals = %+v, want 1 invitee + 7 inviter sits", last)
	}
	if !last.GoalMet {
		t.Fatal("goal not met at 8 of 8 sits")
	}
	if !almostEqual(last.Progress, 100) {
		t.Fatalf("progress = %v, want 100", last.Progress)
	}
}

func TestCompleteSessionDuplicateLeavesCountersUntouched(t *testing.T) {
	fixture := newSessionFixture(t)

	session, err := fixture.service.StartSession(2, 1, 600)
	if err != nil {
		t.Fatalf("StartSession() unexpected error: %v", err)
	}
	first, err := fixture.service.CompleteSession(2, 1, &session.ID, true)
	if err != nil {
		t.Fatalf("first completion unexpected error: %v", err)
	}
	repeat, err := fixture.service.CompleteSession(2, 1, &session.ID, true)
	if err != nil {
		t.Fatalf("repeat completion unexpected error: %v", err)
	}

	if !repeat.Duplicate {
		t.Fatal("repeat completion not flagged as duplicate")
	}
	if first.Duplicate {
		t.Fatal("first completion wrongly flagged as duplicate")
	}
	if repeat.TotalSits != first.TotalSits || repeat.InviteeSits != first.InviteeSits {
		t.Fatalf("duplicate changed totals: first %+v, repeat %+v", first, repeat)
	}
	if len(fixture.publisher.events) != 1 {
		t.Fatalf("published %d progress events, want 1 (no event for duplicates)", len(fixture.publisher.events))
	}
}

func TestCompleteSessionWithoutIDFallsBackToLatestOpen(t *testing.T) {
	fixture := newSessionFixture(t)

	if _, err := fixture.service.StartSession(1, 1, 900); err != nil {
		t.Fatalf("StartSession() unexpected error: %v", err)
	}

	result, err := fixture.service.CompleteSession(1, 1, nil, true)
	if err != nil {
		t.Fatalf("CompleteSession() via fallback unexpected error: %v", err)
	}
	if result.InviterSits != 1 {
		t.Fatalf("inviter sits = %d, want 1", result.InviterSits)
	}
}

func TestCompleteSessionNotCompletedPersistsNothing(t *testing.T) {
	fixture := newSessionFixture(t)

	session, err := fixture.service.StartSession(2, 1, 600)
	if err != nil {
		t.Fatalf("StartSession() unexpected error: %v", err)
	}

	result, err := fixture.service.CompleteSession(2, 1, &session.ID, false)
	if err != nil {
		t.Fatalf("CompleteSession(completed=false) unexpected error: %v", err)
	}
	if result.Completed || result.Duplicate {
		t.Fatalf("interrupted session result = %+v, want no transition", result)
	}

	stored, err := fixture.sessions.FindByID(session.ID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if stored.IsCompleted {
		t.Fatal("interrupted session was marked completed")
	}
	if fixture.weeks.weeks[0].TotalSits() != 0 {
		t.Fatalf("interrupted session incremented counters: %+v", fixture.weeks.weeks[0])
	}
}

func TestCompleteSessionNotifiesPartnerBestEffort(t *testing.T) {
	fixture := newSessionFixture(t)
	fixture.push.err = errors.New("provider down")

	session, err := fixture.service.StartSession(2, 1, 600)
	if err != nil {
		t.Fatalf("StartSession() unexpected error: %v", err)
	}
	result, err := fixture.service.CompleteSession(2, 1, &session.ID, true)
	if err != nil {
		t.Fatalf("push failure must not fail completion, got %v", err)
	}
	if result.TotalSits != 1 {
		t.Fatalf("totals = %+v, want one sit recorded", result)
	}

	if len(fixture.push.pushes) != 1 {
		t.Fatalf("push attempts = %d, want 1", len(fixture.push.pushes))
	}
	if fixture.push.pushes[0].targetUserID != 1 {
		t.Fatalf("push target = %d, want partner 1", fixture.push.pushes[0].targetUserID)
	}
}

func TestCompleteSessionUnknownSessionID(t *testing.T) {
	fixture := newSessionFixture(t)

	missing := uint(404)
	if _, err := fixture.service.CompleteSession(2, 1, &missing, true); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
