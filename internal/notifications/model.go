package notifications

import "time"

// Notification is a durable notice for a single recipient. Message text is
// composed at creation time and stored verbatim; later renames of the actor
// or the anchor do not rewrite history.
type Notification struct {
	ID      uint64 `gorm:"primaryKey"`
	UserID  uint64 `gorm:"index;not null"`
	Title   string `gorm:"not null"`
	Message string `gorm:"type:text;not null"`
	IsRead  bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"index;not null"`
}
