// Package storage persists journal entries, attachments and inbox items and
// computes streak and aggregate stats. The production implementation is
// sqlite; Memory is a deterministic in-process fake for tests and demo mode.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/daybook-app/daybook/internal/models"
)

// ErrNotFound is returned when an entry or inbox item does not exist.
var ErrNotFound = errors.New("not found")

// ErrWrongPassphrase is returned by Open when the passphrase does not match
// the one the database was created with.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// Storage is the persistence collaborator consumed by the journal
// controller. Every operation may fail with a generic storage error; there
// are no partial-success shapes.
type Storage interface {
	// FetchTodayEntries returns entries created within the current local
	// calendar day, sorted descending by creation time.
	FetchTodayEntries(ctx context.Context) ([]models.JournalEntry, error)

	// FetchAllEntries returns every entry, sorted descending by creation time.
	FetchAllEntries(ctx context.Context) ([]models.JournalEntry, error)

	// FetchEntriesRange returns entries with from <= CreatedAt < to, sorted
	// descending by creation time.
	FetchEntriesRange(ctx context.Context, from, to time.Time) ([]models.JournalEntry, error)

	// FetchEntry returns one entry with its attachments, or ErrNotFound.
	FetchEntry(ctx context.Context, id string) (*models.JournalEntry, error)

	// CreateEntry persists a new entry and its attachments atomically.
	CreateEntry(ctx context.Context, entry models.JournalEntry) error

	// UpdateEntryContent replaces the content (and word count, updated
	// timestamp) of an existing entry. Title and attachments are untouched.
	UpdateEntryContent(ctx context.Context, id, content string) error

	// UpdateEntry replaces title and content of an existing entry.
	UpdateEntry(ctx context.Context, entry models.JournalEntry) error

	// DeleteEntry removes an entry and, by cascade, its attachments.
	DeleteEntry(ctx context.Context, id string) error

	// CalculateStreak returns the count of consecutive local calendar days
	// with at least one entry, anchored at today or yesterday (grace day).
	CalculateStreak(ctx context.Context) (int, error)

	// TotalEntryCount returns the number of persisted entries.
	TotalEntryCount(ctx context.Context) (int, error)

	// TotalWordCount returns the summed word count over all entries.
	TotalWordCount(ctx context.Context) (int, error)

	// CreateInboxItem persists a quick capture.
	CreateInboxItem(ctx context.Context, item models.InboxItem) error

	// FetchActiveInboxItems returns items that are not both processed and
	// archived, newest first.
	FetchActiveInboxItems(ctx context.Context) ([]models.InboxItem, error)

	// ArchiveInboxItem marks an item processed and archived.
	ArchiveInboxItem(ctx context.Context, id string) error

	// DeleteInboxItem removes an item.
	DeleteInboxItem(ctx context.Context, id string) error
}
