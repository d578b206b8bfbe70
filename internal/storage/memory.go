package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/daybook-app/daybook/internal/models"
)

var (
	_ Storage = (*SQLite)(nil)
	_ Storage = (*Memory)(nil)
)

// Memory is an in-process Storage used by tests and demo mode. It is
// deterministic: entries keep the timestamps the caller put on them, the
// clock is injectable, and any operation can be made to fail on demand.
type Memory struct {
	mu      sync.Mutex
	entries map[string]models.JournalEntry
	inbox   map[string]models.InboxItem
	fail    map[string]error
	now     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]models.JournalEntry),
		inbox:   make(map[string]models.InboxItem),
		fail:    make(map[string]error),
		now:     time.Now,
	}
}

// SetNow overrides the clock used for today-window and streak queries.
func (m *Memory) SetNow(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// FailWith makes the named operation (e.g. "CreateEntry") return err until
// cleared with a nil err.
func (m *Memory) FailWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, op)
		return
	}
	m.fail[op] = err
}

func (m *Memory) failure(op string) error {
	return m.fail[op]
}

func copyEntry(e models.JournalEntry) models.JournalEntry {
	out := e
	out.Attachments = make([]models.Attachment, len(e.Attachments))
	copy(out.Attachments, e.Attachments)
	return out
}

func (m *Memory) sortedEntries(filter func(models.JournalEntry) bool) []models.JournalEntry {
	var result []models.JournalEntry
	for _, e := range m.entries {
		if filter == nil || filter(e) {
			result = append(result, copyEntry(e))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *Memory) FetchTodayEntries(ctx context.Context) ([]models.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("FetchTodayEntries"); err != nil {
		return nil, err
	}
	start := dayStart(m.now())
	end := start.Add(24 * time.Hour)
	return m.sortedEntries(func(e models.JournalEntry) bool {
		return !e.CreatedAt.Before(start) && e.CreatedAt.Before(end)
	}), nil
}

func (m *Memory) FetchAllEntries(ctx context.Context) ([]models.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("FetchAllEntries"); err != nil {
		return nil, err
	}
	return m.sortedEntries(nil), nil
}

func (m *Memory) FetchEntriesRange(ctx context.Context, from, to time.Time) ([]models.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("FetchEntriesRange"); err != nil {
		return nil, err
	}
	return m.sortedEntries(func(e models.JournalEntry) bool {
		return !e.CreatedAt.Before(from) && e.CreatedAt.Before(to)
	}), nil
}

func (m *Memory) FetchEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("FetchEntry"); err != nil {
		return nil, err
	}
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyEntry(e)
	return &out, nil
}

func (m *Memory) CreateEntry(ctx context.Context, entry models.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateEntry"); err != nil {
		return err
	}
	m.entries[entry.ID] = copyEntry(entry)
	return nil
}

func (m *Memory) UpdateEntryContent(ctx context.Context, id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("UpdateEntryContent"); err != nil {
		return err
	}
	e, ok := m.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.Content = content
	e.UpdatedAt = m.now()
	m.entries[id] = e
	return nil
}

func (m *Memory) UpdateEntry(ctx context.Context, entry models.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("UpdateEntry"); err != nil {
		return err
	}
	e, ok := m.entries[entry.ID]
	if !ok {
		return ErrNotFound
	}
	e.Title = entry.Title
	e.Content = entry.Content
	e.UpdatedAt = m.now()
	m.entries[entry.ID] = e
	return nil
}

func (m *Memory) DeleteEntry(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("DeleteEntry"); err != nil {
		return err
	}
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *Memory) CalculateStreak(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CalculateStreak"); err != nil {
		return 0, err
	}
	createdAts := make([]time.Time, 0, len(m.entries))
	for _, e := range m.entries {
		createdAts = append(createdAts, e.CreatedAt)
	}
	return CurrentStreak(createdAts, m.now()), nil
}

func (m *Memory) TotalEntryCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("TotalEntryCount"); err != nil {
		return 0, err
	}
	return len(m.entries), nil
}

func (m *Memory) TotalWordCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("TotalWordCount"); err != nil {
		return 0, err
	}
	total := 0
	for _, e := range m.entries {
		total += e.WordCount()
	}
	return total, nil
}

func (m *Memory) CreateInboxItem(ctx context.Context, item models.InboxItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateInboxItem"); err != nil {
		return err
	}
	m.inbox[item.ID] = item
	return nil
}

func (m *Memory) FetchActiveInboxItems(ctx context.Context) ([]models.InboxItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("FetchActiveInboxItems"); err != nil {
		return nil, err
	}
	var result []models.InboxItem
	for _, item := range m.inbox {
		if item.Active() {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *Memory) ArchiveInboxItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ArchiveInboxItem"); err != nil {
		return err
	}
	item, ok := m.inbox[id]
	if !ok {
		return ErrNotFound
	}
	item.Processed = true
	item.Archived = true
	m.inbox[id] = item
	return nil
}

func (m *Memory) DeleteInboxItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("DeleteInboxItem"); err != nil {
		return err
	}
	if _, ok := m.inbox[id]; !ok {
		return ErrNotFound
	}
	delete(m.inbox, id)
	return nil
}
