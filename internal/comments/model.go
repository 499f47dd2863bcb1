package comments

import "time"

type AnchorKind string

const (
	AnchorNote    AnchorKind = "note"
	AnchorRequest AnchorKind = "request"
)

// Anchor is the entity a comment is attached to: exactly one of a note or a
// note request. Using a tagged value instead of two nullable ids makes
// "exactly one populated" hold by construction.
type Anchor struct {
	Kind AnchorKind
	ID   uint64
}

func NoteAnchor(id uint64) Anchor    { return Anchor{Kind: AnchorNote, ID: id} }
func RequestAnchor(id uint64) Anchor { return Anchor{Kind: AnchorRequest, ID: id} }

func (a Anchor) Valid() bool {
	return (a.Kind == AnchorNote || a.Kind == AnchorRequest) && a.ID != 0
}

// Comment rows keep the discriminator plus two nullable foreign keys for the
// storage layer; the service only ever reads/writes them through Anchor.
type Comment struct {
	ID          uint64  `gorm:"primaryKey"`
	ContentType string  `gorm:"not null"`
	NoteID      *uint64 `gorm:"index"`
	RequestID   *uint64 `gorm:"index"`
	UserID      uint64  `gorm:"index;not null"`
	Text        string  `gorm:"type:text;not null"`

	AttachmentRef *string
	ParentID      *uint64 `gorm:"index"`

	CreatedAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (c *Comment) Anchor() Anchor {
	if c.NoteID != nil {
		return NoteAnchor(*c.NoteID)
	}
	if c.RequestID != nil {
		return RequestAnchor(*c.RequestID)
	}
	return Anchor{}
}

func (c *Comment) setAnchor(a Anchor) {
	c.ContentType = string(a.Kind)
	switch a.Kind {
	case AnchorNote:
		id := a.ID
		c.NoteID = &id
	case AnchorRequest:
		id := a.ID
		c.RequestID = &id
	}
}

// Node is a comment carrying its reply subtree.
type Node struct {
	Comment
	Replies []*Node
}
