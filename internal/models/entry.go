// Package models defines the journal record types persisted by storage.
package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// AttachmentKind classifies how an attachment was captured.
type AttachmentKind string

const (
	AttachmentKindImage AttachmentKind = "image"
	AttachmentKindScan  AttachmentKind = "scan"
)

// Attachment is a binary payload owned by exactly one entry. It is
// cascade-deleted with its parent.
type Attachment struct {
	ID        string
	EntryID   string
	Kind      AttachmentKind
	Data      []byte
	Thumbnail []byte
	MIMEType  string
	CreatedAt time.Time
}

// NewAttachment builds an attachment with a fresh id. The thumbnail may be nil.
func NewAttachment(kind AttachmentKind, data, thumbnail []byte, mimeType string) Attachment {
	return Attachment{
		ID:        uuid.NewString(),
		Kind:      kind,
		Data:      data,
		Thumbnail: thumbnail,
		MIMEType:  mimeType,
		CreatedAt: time.Now(),
	}
}

// JournalEntry is one journal record. UpdatedAt never precedes CreatedAt.
type JournalEntry struct {
	ID          string
	Title       string
	Content     string
	Attachments []Attachment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewJournalEntry builds an entry with a fresh id and both timestamps set to now.
func NewJournalEntry(title, content string, attachments []Attachment) JournalEntry {
	now := time.Now()
	e := JournalEntry{
		ID:          uuid.NewString(),
		Title:       title,
		Content:     content,
		Attachments: attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i := range e.Attachments {
		e.Attachments[i].EntryID = e.ID
	}
	return e
}

// WordCount counts whitespace-separated words in the entry content.
func (e JournalEntry) WordCount() int {
	return len(strings.FieldsFunc(e.Content, unicode.IsSpace))
}
