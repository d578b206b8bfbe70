package models

import (
	"time"

	"github.com/google/uuid"
)

// InboxItem is a quick capture waiting to be reviewed. A processed and
// archived item is excluded from the active inbox view.
type InboxItem struct {
	ID        string
	Content   string
	Processed bool
	Archived  bool
	CreatedAt time.Time
}

// NewInboxItem builds an active (unprocessed, unarchived) inbox item.
func NewInboxItem(content string) InboxItem {
	return InboxItem{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// Active reports whether the item should appear in the inbox view.
func (i InboxItem) Active() bool {
	return !(i.Processed && i.Archived)
}
