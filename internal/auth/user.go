package auth

import "time"

// User is a student account. Email lookup is case-insensitive: emails are
// lowercased before storage and lookup.
type User struct {
	ID           uint64  `gorm:"primaryKey"`
	Email        string  `gorm:"uniqueIndex;not null"`
	Username     *string `gorm:"uniqueIndex"`
	FullName     string  `gorm:"not null"`
	PasswordHash string  `gorm:"not null"`

	ProfilePicture *string
	Bio            *string `gorm:"type:text"`
	College        *string
	Course         *string
	Year           *string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
