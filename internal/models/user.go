package models

import "time"

const (
	PairingNotStarted      = "not_started"
	PairingAwaitingPartner = "awaiting_partner"
	PairingPaired          = "paired"
)

const (
	DefaultWeeklyTarget   = 5
	DefaultUsualSitLength = 10
)

// Column names follow the legacy store schema; all mapping between Go field
// names and stored names lives in these tags and nowhere else.
type User struct {
	ID             uint      `gorm:"primaryKey;column:id" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Email          string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	WeeklyTarget   int       `gorm:"column:weeklytarget;not null" json:"weeklyTarget"`
	UsualSitLength int       `gorm:"column:usualsitlength;not null" json:"usualSitLength"`
	InviteCode     string    `gorm:"column:invitecode;uniqueIndex;not null" json:"inviteCode"`
	PairingStatus  string    `gorm:"column:pairing_status;not null;default:not_started" json:"pairingStatus"`
	ReturnToken    *string   `gorm:"column:return_token" json:"-"`
	CreatedAt      time.Time `gorm:"column:createdat;not null" json:"createdAt"`
}
