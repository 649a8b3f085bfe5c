package models

import "time"

const (
	WeekCreationSuccess = "success"
	WeekCreationError   = "error"
	WeekCreationSkipped = "skipped"
)

// WeekCreationLog is the audit trail of the week pre-creation scheduler.
// RunID groups all entries written by a single scheduler pass.
type WeekCreationLog struct {
	ID            uint      `gorm:"primaryKey;column:id" json:"id"`
	RunID         string    `gorm:"column:runid;not null;index" json:"runId"`
	PartnershipID *uint     `gorm:"column:partnershipid" json:"partnershipId"`
	Status        string    `gorm:"column:status;not null" json:"status"`
	Detail        string    `gorm:"column:detail" json:"detail"`
	CreatedAt     time.Time `gorm:"column:createdat;not null;index" json:"createdAt"`
}
