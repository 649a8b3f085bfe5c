package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/idolanuel5885/serenity-plus/internal/models"
)

const (
	HealthStatusHealthy  = "healthy"
	HealthStatusWarning  = "warning"
	HealthStatusCritical = "critical"

	healthAuditWindow = 24 * time.Hour

	criticalStaleHours   = 6
	warningStaleHours    = 2
	criticalPendingCount = 5

	alertDispatchTimeout = 10 * time.Second
)

type HealthAuditStore interface {
	CountByStatusSince(cutoff time.Time) (map[string]int64, error)
	LastActivityAt() (*time.Time, error)
}

type HealthPartnershipStore interface {
	ListWithoutCurrentWeek(now time.Time) ([]models.Partnership, error)
}

// AlertChannel is one best-effort alert sink (email, chat webhook, ...).
type AlertChannel interface {
	Name() string
	SendAlert(ctx context.Context, report HealthReport) error
}

type HealthMetrics struct {
	WindowHours            int      `json:"windowHours"`
	Successes              int64    `json:"successes"`
	Errors                 int64    `json:"errors"`
	Skipped                int64    `json:"skipped"`
	HoursSinceLastActivity *float64 `json:"hoursSinceLastActivity"`
	PendingPartnerships    int      `json:"pendingPartnerships"`
}

type HealthReport struct {
	Status    string        `json:"status"`
	Metrics   HealthMetrics `json:"metrics"`
	Alerts    []string      `json:"alerts"`
	CheckedAt time.Time     `json:"checkedAt"`
}

// HealthService audits week pre-creation: how recently the scheduler ran,
// whether its passes errored, and how many live partnerships are sitting
// without a current week.
type HealthService struct {
	audit        HealthAuditStore
	partnerships HealthPartnershipStore
	channels     []AlertChannel
	now          func() time.Time
}

func NewHealthService(audit HealthAuditStore, partnerships HealthPartnershipStore, channels []AlertChannel) *HealthService {
	return &HealthService{audit: audit, partnerships: partnerships, channels: channels, now: time.Now}
}

// Evaluate builds the health report and, when status is not healthy, fans the
// report out to every configured alert channel without blocking the caller.
func (service *HealthService) Evaluate(ctx context.Context) (HealthReport, error) {
	now := service.now()

	counts, err := service.audit.CountByStatusSince(now.Add(-healthAuditWindow))
	if err != nil {
		return HealthReport{}, fmt.Errorf("read week-creation audit log: %w", err)
	}

	lastActivity, err := service.audit.LastActivityAt()
	if err != nil {
		return HealthReport{}, fmt.Errorf("read last audit activity: %w", err)
	}

	withoutWeek, err := service.partnerships.ListWithoutCurrentWeek(now)
	if err != nil {
		return HealthReport{}, fmt.Errorf("count pending partnerships: %w", err)
	}

	pending := 0
	for _, partnership := range withoutWeek {
		if !partnership.AutoCreateWeeks {
			continue
		}
		if paused := partnership.WeekCreationPausedUntil; paused != nil && now.Before(*paused) {
			continue
		}
		pending++
	}

	metrics := HealthMetrics{
		WindowHours:         int(healthAuditWindow.Hours()),
		Successes:           counts[models.WeekCreationSuccess],
		Errors:              counts[models.WeekCreationError],
		Skipped:             counts[models.WeekCreationSkipped],
		PendingPartnerships: pending,
	}
	if lastActivity != nil {
		hours := now.Sub(*lastActivity).Hours()
		metrics.HoursSinceLastActivity = &hours
	}

	report := HealthReport{
		Metrics:   metrics,
		CheckedAt: now,
	}
	report.Status, report.Alerts = classify(metrics)

	if report.Status != HealthStatusHealthy {
		service.dispatchAlerts(report)
	}

	return report, nil
}

// classify applies the grading thresholds. An empty audit log (fresh install,
// scheduler has never run) skips the staleness rules rather than paging on a
// system with nothing to create.
func classify(metrics HealthMetrics) (string, []string) {
	alerts := make([]string, 0, 3)
	status := HealthStatusHealthy

	if metrics.HoursSinceLastActivity != nil {
		hours := *metrics.HoursSinceLastActivity
		if hours > criticalStaleHours {
			status = HealthStatusCritical
			alerts = append(alerts, fmt.Sprintf("no week-creation activity for %.1f hours", hours))
		} else if hours > warningStaleHours {
			status = HealthStatusWarning
			alerts = append(alerts, fmt.Sprintf("week-creation activity is %.1f hours old", hours))
		}
	}

	if metrics.PendingPartnerships > criticalPendingCount {
		status = HealthStatusCritical
		alerts = append(alerts, fmt.Sprintf("%d partnerships are waiting for a current week", metrics.PendingPartnerships))
	} else if metrics.PendingPartnerships > 0 {
		if status != HealthStatusCritical {
			status = HealthStatusWarning
		}
		alerts = append(alerts, fmt.Sprintf("%d partnerships are waiting for a current week", metrics.PendingPartnerships))
	}

	if metrics.Errors > 0 {
		if status == HealthStatusHealthy {
			status = HealthStatusWarning
		}
		alerts = append(alerts, fmt.Sprintf("%d week-creation errors in the last %dh", metrics.Errors, metrics.WindowHours))
	}

	return status, alerts
}

// dispatchAlerts fans out to all channels concurrently. Every channel gets
// its own timeout; failures are logged and swallowed, with no retry and no
// effect on the other channels or the triggering request.
func (service *HealthService) dispatchAlerts(report HealthReport) {
	for _, channel := range service.channels {
		channel := channel
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), alertDispatchTimeout)
			defer cancel()
			if err := channel.SendAlert(ctx, report); err != nil {
				log.Printf("alert via %s failed: %v", channel.Name(), err)
			}
		}()
	}
}
