package catalog

import "time"

// Subject is a category notes and requests can be filed under.
type Subject struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text;not null;default:''"`
	Icon        string `gorm:"not null;default:'book'"`
	Color       string `gorm:"not null;default:'#6366F1'"` // hex
	CreatedAt   time.Time
}
