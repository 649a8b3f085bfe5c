package models

import "time"

// Session is one meditation sit. It is created open at session start and
// transitions to completed exactly once; an abandoned session simply never
// transitions.
type Session struct {
	ID            uint       `gorm:"primaryKey;column:id" json:"id"`
	UserID        uint       `gorm:"column:userid;not null" json:"userId"`
	PartnershipID uint       `gorm:"column:partnershipid;not null" json:"partnershipId"`
	WeekID        uint       `gorm:"column:weekid;not null" json:"weekId"`
	SitLength     int        `gorm:"column:sitlength;not null" json:"sitLength"`
	IsCompleted   bool       `gorm:"column:iscompleted;not null;default:false" json:"isCompleted"`
	CompletedAt   *time.Time `gorm:"column:completedat" json:"completedAt"`
}
