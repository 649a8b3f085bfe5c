package models

import "time"

// WeekLength is the fixed span of one tracking window.
const WeekLength = 7 * 24 * time.Hour

// Week is one 7-day tracking window for a partnership. Weeks form an
// append-only ledger: WeekNumber is monotonic per partnership starting at 1,
// and WeeklyGoal is a frozen snapshot of the combined targets at creation
// time, never recomputed.
type Week struct {
	ID            uint      `gorm:"primaryKey;column:id" json:"id"`
	PartnershipID uint      `gorm:"column:partnershipid;not null;uniqueIndex:uidx_partnership_weeknumber" json:"partnershipId"`
	WeekNumber    int       `gorm:"column:weeknumber;not null;uniqueIndex:uidx_partnership_weeknumber" json:"weekNumber"`
	WeekStart     time.Time `gorm:"column:weekstart;not null" json:"weekStart"`
	WeekEnd       time.Time `gorm:"column:weekend;not null" json:"weekEnd"`
	WeeklyGoal    int       `gorm:"column:weeklygoal;not null" json:"weeklyGoal"`
	InviteeSits   int       `gorm:"column:inviteesits;not null;default:0" json:"inviteeSits"`
	InviterSits   int       `gorm:"column:invitersits;not null;default:0" json:"inviterSits"`
	GoalMet       bool      `gorm:"column:goalmet;not null;default:false" json:"goalMet"`
	CreatedAt     time.Time `gorm:"column:createdat;not null" json:"createdAt"`
}

// TotalSits is the combined sit count for the window.
func (week Week) TotalSits() int {
	return week.InviteeSits + week.InviterSits
}

// Contains reports whether the instant falls inside [WeekStart, WeekEnd].
func (week Week) Contains(at time.Time) bool {
	return !at.Before(week.WeekStart) && !at.After(week.WeekEnd)
}
