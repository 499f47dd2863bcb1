package requests

import "time"

type Status string

const (
	StatusOpen      Status = "open"
	StatusFulfilled Status = "fulfilled"
	StatusClosed    Status = "closed"
)

// NoteRequest asks the community for notes on a topic. FulfilledByID is set
// if and only if status is fulfilled; there is no un-fulfill.
type NoteRequest struct {
	ID            uint64  `gorm:"primaryKey"`
	Title         string  `gorm:"not null"`
	Description   string  `gorm:"type:text;not null"`
	SubjectID     *uint64 `gorm:"index"`
	RequestedByID uint64  `gorm:"index;not null"`
	Status        Status  `gorm:"not null;default:'open'"`
	FulfilledByID *uint64

	CreatedAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
