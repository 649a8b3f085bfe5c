package models

import "time"

// Partnership links two users as one undirected pair stored as a directed
// row: UserID is the invitee (redeemed the code), PartnerID is the inviter.
// At most one row may exist per pair in either direction; the store enforces
// this with a unique index over (min(userid,partnerid), max(userid,partnerid)).
type Partnership struct {
	ID                      uint       `gorm:"primaryKey;column:id" json:"id"`
	UserID                  uint       `gorm:"column:userid;not null" json:"userId"`
	PartnerID               uint       `gorm:"column:partnerid;not null" json:"partnerId"`
	Score                   int        `gorm:"column:score;not null;default:0" json:"score"`
	AutoCreateWeeks         bool       `gorm:"column:autocreateweeks;not null;default:true" json:"autoCreateWeeks"`
	WeekCreationPausedUntil *time.Time `gorm:"column:weekcreationpauseduntil" json:"weekCreationPausedUntil"`
	CreatedAt               time.Time  `gorm:"column:createdat;not null" json:"createdAt"`
}

// Involves reports whether the given user is one side of the pair.
func (partnership Partnership) Involves(userID uint) bool {
	return partnership.UserID == userID || partnership.PartnerID == userID
}
