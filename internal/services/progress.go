package services

import "github.com/idolanuel5885/serenity-plus/internal/models"

// ProgressBreakdown is the completion picture the UI animates: CurrentProgress
// includes the in-flight session's fractional share, SessionProgress is that
// share alone. Values are percentage points clamped to [0, 100].
type ProgressBreakdown struct {
	CurrentProgress float64 `json:"currentProgress"`
	SessionProgress float64 `json:"sessionProgress"`
}

// WeekProgress computes goal completion for a week with no session running.
func WeekProgress(week models.Week) ProgressBreakdown {
	return WeekProgressWithSession(week, 0, 0)
}

// WeekProgressWithSession computes goal completion including an in-flight
// session. Each completed sit is worth 100/weeklyGoal points; a running sit
// contributes elapsed/duration of one sit's worth. A week with a zero or
// negative goal reports no progress rather than dividing by zero.
func WeekProgressWithSession(week models.Week, sessionDuration float64, sessionElapsed float64) ProgressBreakdown {
	if week.WeeklyGoal <= 0 {
		return ProgressBreakdown{}
	}

	goal := float64(week.WeeklyGoal)
	base := clampPercent(100 * float64(week.TotalSits()) / goal)

	var sessionShare float64
	if sessionDuration > 0 && sessionElapsed > 0 {
		ratio := sessionElapsed / sessionDuration
		if ratio > 1 {
			ratio = 1
		}
		sessionShare = ratio * (100 / goal)
	}

	return ProgressBreakdown{
		CurrentProgress: clampPercent(base + sessionShare),
		SessionProgress: sessionShare,
	}
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
