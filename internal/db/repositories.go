package db

import "gorm.io/gorm"

type Repositories struct {
	Users            *UserRepository
	Partnerships     *PartnershipRepository
	Weeks            *WeekRepository
	Sessions         *SessionRepository
	WeekCreationLogs *WeekCreationLogRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:            NewUserRepository(database),
		Partnerships:     NewPartnershipRepository(database),
		Weeks:            NewWeekRepository(database),
		Sessions:         NewSessionRepository(database),
		WeekCreationLogs: NewWeekCreationLogRepository(database),
	}
}
