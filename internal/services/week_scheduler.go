package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/idolanuel5885/serenity-plus/internal/models"
)

type SchedulerPartnershipStore interface {
	ListWithoutCurrentWeek(now time.Time) ([]models.Partnership, error)
}

type SchedulerUserStore interface {
	FindByID(userID uint) (models.User, error)
}

type SchedulerAuditStore interface {
	Append(entry *models.WeekCreationLog) error
}

// WeekScheduler pre-creates weeks so sessions rarely hit the on-demand path.
// It is purely an optimization: the on-demand creation in WeekService remains
// the source of truth, and a stopped scheduler only degrades, never breaks,
// week tracking. Every pass leaves audit rows for the health monitor.
type WeekScheduler struct {
	partnerships SchedulerPartnershipStore
	users        SchedulerUserStore
	audit        SchedulerAuditStore
	weekService  *WeekService
	interval     time.Duration
	now          func() time.Time
}

func NewWeekScheduler(
	partnerships SchedulerPartnershipStore,
	users SchedulerUserStore,
	audit SchedulerAuditStore,
	weekService *WeekService,
	interval time.Duration,
) *WeekScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &WeekScheduler{
		partnerships: partnerships,
		users:        users,
		audit:        audit,
		weekService:  weekService,
		interval:     interval,
		now:          time.Now,
	}
}

// Start runs scheduler passes until the context is cancelled.
func (scheduler *WeekScheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(scheduler.interval)
		defer ticker.Stop()

		scheduler.RunOnce()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				scheduler.RunOnce()
			}
		}
	}()
}

// RunOnce scans every partnership lacking a current week and creates the next
// week for those with live auto-creation, skipping paused or disabled ones.
// Each pass writes a heartbeat row even when there is nothing to do, so the
// health monitor can tell "idle" from "dead".
func (scheduler *WeekScheduler) RunOnce() {
	runID := uuid.NewString()
	now := scheduler.now()

	candidates, err := scheduler.partnerships.ListWithoutCurrentWeek(now)
	if err != nil {
		scheduler.record(runID, nil, models.WeekCreationError, fmt.Sprintf("scan failed: %v", err))
		log.Printf("WARN: week scheduler run %s scan failed: %v", runID, err)
		return
	}

	created, skipped, failed := 0, 0, 0
	for _, partnership := range candidates {
		partnershipID := partnership.ID

		if !partnership.AutoCreateWeeks {
			skipped++
			scheduler.record(runID, &partnershipID, models.WeekCreationSkipped, "auto-creation disabled")
			continue
		}
		if paused := partnership.WeekCreationPausedUntil; paused != nil && now.Before(*paused) {
			skipped++
			scheduler.record(runID, &partnershipID, models.WeekCreationSkipped,
				fmt.Sprintf("paused until %s", paused.Format(time.RFC3339)))
			continue
		}

		goal, err := scheduler.combinedGoal(partnership)
		if err != nil {
			failed++
			scheduler.record(runID, &partnershipID, models.WeekCreationError, fmt.Sprintf("resolve goal: %v", err))
			continue
		}

		week, err := scheduler.weekService.CreateWeek(partnershipID, goal)
		if err != nil {
			failed++
			scheduler.record(runID, &partnershipID, models.WeekCreationError, fmt.Sprintf("create week: %v", err))
			continue
		}

		created++
		scheduler.record(runID, &partnershipID, models.WeekCreationSuccess,
			fmt.Sprintf("created week %d (goal %d)", week.WeekNumber, week.WeeklyGoal))
	}

	scheduler.record(runID, nil, models.WeekCreationSuccess,
		fmt.Sprintf("pass complete: %d candidates, %d created, %d skipped, %d failed",
			len(candidates), created, skipped, failed))
	if failed > 0 {
		log.Printf("WARN: week scheduler run %s finished with %d failures", runID, failed)
	}
}

func (scheduler *WeekScheduler) combinedGoal(partnership models.Partnership) (int, error) {
	invitee, err := scheduler.users.FindByID(partnership.UserID)
	if err != nil {
		return 0, fmt.Errorf("load invitee: %w", err)
	}
	inviter, err := scheduler.users.FindByID(partnership.PartnerID)
	if err != nil {
		return 0, fmt.Errorf("load inviter: %w", err)
	}
	return invitee.WeeklyTarget + inviter.WeeklyTarget, nil
}

func (scheduler *WeekScheduler) record(runID string, partnershipID *uint, status string, detail string) {
	entry := models.WeekCreationLog{
		RunID:         runID,
		PartnershipID: partnershipID,
		Status:        status,
		Detail:        detail,
	}
	if err := scheduler.audit.Append(&entry); err != nil {
		log.Printf("WARN: append week-creation audit entry failed: %v", err)
	}
}
