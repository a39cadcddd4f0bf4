package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// NotificationState stores the candidate report IDs a user has already seen,
// so the unread count excludes them.
type NotificationState struct {
	BaseModel
	UserID uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	Viewed pq.StringArray `gorm:"type:text[]"`
}

func (NotificationState) TableName() string {
	return "notification_states"
}
