package storage

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/daybook-app/daybook/internal/cryptox"
	"github.com/daybook-app/daybook/internal/dbx"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/storage/migrations"
)

// SQLite implements Storage on a local sqlite database. Timestamps are
// stored as integer unix nanoseconds so descending sorts stay exact. When a
// passphrase is given at Open, titles, contents and attachment payloads are
// sealed with an AES-GCM cipher keyed from the passphrase.
type SQLite struct {
	db     *sql.DB
	cipher *cryptox.Cipher
	now    func() time.Time
}

// Open opens (or creates) the database at dsn, runs goose migrations and,
// when passphrase is non-empty, unlocks at-rest encryption. A passphrase
// that does not match the one the database was created with yields
// ErrWrongPassphrase.
func Open(ctx context.Context, dsn string, passphrase []byte) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLite{db: db, now: time.Now}
	if len(passphrase) > 0 {
		if err := s.unlock(ctx, passphrase); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// unlock derives the encryption key and checks it against the persisted
// verifier. On first use the salt and verifier are created.
func (s *SQLite) unlock(ctx context.Context, passphrase []byte) error {
	salt, err := s.metaGet(ctx, "kdf_salt")
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if salt == nil {
		salt, err = cryptox.NewSalt()
		if err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
		key := cryptox.DeriveKey(passphrase, salt)
		if err := s.metaSet(ctx, "kdf_salt", salt); err != nil {
			return err
		}
		if err := s.metaSet(ctx, "key_verifier", cryptox.MakeVerifier(key)); err != nil {
			return err
		}
		s.cipher, err = cryptox.NewCipher(key)
		return err
	}

	key := cryptox.DeriveKey(passphrase, salt)
	verifier, err := s.metaGet(ctx, "key_verifier")
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(verifier, cryptox.MakeVerifier(key)) != 1 {
		return ErrWrongPassphrase
	}
	s.cipher, err = cryptox.NewCipher(key)
	return err
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) metaGet(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read meta %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLite) metaSet(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write meta %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) seal(plain []byte) ([]byte, error) {
	if s.cipher == nil {
		return plain, nil
	}
	return s.cipher.Seal(plain)
}

func (s *SQLite) open(blob []byte) ([]byte, error) {
	if s.cipher == nil {
		return blob, nil
	}
	return s.cipher.Open(blob)
}

const entryColumns = `id, title, content, created_at, updated_at`

// queryEntries runs an entry SELECT over entryColumns and loads the
// attachments of every returned entry.
func (s *SQLite) queryEntries(ctx context.Context, query string, args ...any) ([]models.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []models.JournalEntry
	for rows.Next() {
		var (
			e              models.JournalEntry
			title, content []byte
			created, upd   int64
		)
		if err := rows.Scan(&e.ID, &title, &content, &created, &upd); err != nil {
			return nil, err
		}
		if title, err = s.open(title); err != nil {
			return nil, err
		}
		if content, err = s.open(content); err != nil {
			return nil, err
		}
		e.Title = string(title)
		e.Content = string(content)
		e.CreatedAt = time.Unix(0, created)
		e.UpdatedAt = time.Unix(0, upd)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		atts, err := s.attachmentsFor(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Attachments = atts
	}
	return result, nil
}

func (s *SQLite) attachmentsFor(ctx context.Context, entryID string) ([]models.Attachment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, mime_type, data, thumbnail, created_at FROM attachments WHERE entry_id = ? ORDER BY created_at`,
		entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	var result []models.Attachment
	for rows.Next() {
		var (
			a       models.Attachment
			created int64
		)
		if err := rows.Scan(&a.ID, &a.Kind, &a.MIMEType, &a.Data, &a.Thumbnail, &created); err != nil {
			return nil, err
		}
		if a.Data, err = s.open(a.Data); err != nil {
			return nil, err
		}
		if len(a.Thumbnail) > 0 {
			if a.Thumbnail, err = s.open(a.Thumbnail); err != nil {
				return nil, err
			}
		}
		a.EntryID = entryID
		a.CreatedAt = time.Unix(0, created)
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *SQLite) FetchTodayEntries(ctx context.Context) ([]models.JournalEntry, error) {
	start := dayStart(s.now())
	end := start.Add(24 * time.Hour)
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE created_at >= ? AND created_at < ? ORDER BY created_at DESC`,
		start.UnixNano(), end.UnixNano())
}

func (s *SQLite) FetchAllEntries(ctx context.Context) ([]models.JournalEntry, error) {
	return s.queryEntries(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY created_at DESC`)
}

func (s *SQLite) FetchEntriesRange(ctx context.Context, from, to time.Time) ([]models.JournalEntry, error) {
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE created_at >= ? AND created_at < ? ORDER BY created_at DESC`,
		from.UnixNano(), to.UnixNano())
}

func (s *SQLite) FetchEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	entries, err := s.queryEntries(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return &entries[0], nil
}

func (s *SQLite) CreateEntry(ctx context.Context, entry models.JournalEntry) error {
	title, err := s.seal([]byte(entry.Title))
	if err != nil {
		return err
	}
	content, err := s.seal([]byte(entry.Content))
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, title, content, word_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			entry.ID, title, content, entry.WordCount(), entry.CreatedAt.UnixNano(), entry.UpdatedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
		for _, a := range entry.Attachments {
			if err := s.insertAttachment(ctx, tx, entry.ID, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLite) insertAttachment(ctx context.Context, tx dbx.DBTX, entryID string, a models.Attachment) error {
	data, err := s.seal(a.Data)
	if err != nil {
		return err
	}
	var thumbnail any
	if len(a.Thumbnail) > 0 {
		sealed, err := s.seal(a.Thumbnail)
		if err != nil {
			return err
		}
		thumbnail = sealed
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO attachments (id, entry_id, kind, mime_type, data, thumbnail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, entryID, a.Kind, a.MIMEType, data, thumbnail, a.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	return nil
}

func (s *SQLite) UpdateEntryContent(ctx context.Context, id, content string) error {
	sealed, err := s.seal([]byte(content))
	if err != nil {
		return err
	}
	wc := models.JournalEntry{Content: content}.WordCount()
	res, err := s.db.ExecContext(ctx,
		`UPDATE entries SET content = ?, word_count = ?, updated_at = ? WHERE id = ?`,
		sealed, wc, s.now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to update entry content: %w", err)
	}
	return oneAffected(res)
}

func (s *SQLite) UpdateEntry(ctx context.Context, entry models.JournalEntry) error {
	title, err := s.seal([]byte(entry.Title))
	if err != nil {
		return err
	}
	content, err := s.seal([]byte(entry.Content))
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE entries SET title = ?, content = ?, word_count = ?, updated_at = ? WHERE id = ?`,
		title, content, entry.WordCount(), s.now().UnixNano(), entry.ID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return oneAffected(res)
}

func (s *SQLite) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return oneAffected(res)
}

func (s *SQLite) CalculateStreak(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT created_at FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("failed to select entry timestamps: %w", err)
	}
	defer rows.Close()

	var createdAts []time.Time
	for rows.Next() {
		var ns int64
		if err := rows.Scan(&ns); err != nil {
			return 0, err
		}
		createdAts = append(createdAts, time.Unix(0, ns))
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return CurrentStreak(createdAts, s.now()), nil
}

func (s *SQLite) TotalEntryCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM entries`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

func (s *SQLite) TotalWordCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(word_count), 0) FROM entries`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to sum word counts: %w", err)
	}
	return n, nil
}

func (s *SQLite) CreateInboxItem(ctx context.Context, item models.InboxItem) error {
	content, err := s.seal([]byte(item.Content))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO inbox_items (id, content, processed, archived, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, content, item.Processed, item.Archived, item.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert inbox item: %w", err)
	}
	return nil
}

func (s *SQLite) FetchActiveInboxItems(ctx context.Context) ([]models.InboxItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, processed, archived, created_at FROM inbox_items
		 WHERE NOT (processed = 1 AND archived = 1) ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select inbox items: %w", err)
	}
	defer rows.Close()

	var result []models.InboxItem
	for rows.Next() {
		var (
			item    models.InboxItem
			content []byte
			created int64
		)
		if err := rows.Scan(&item.ID, &content, &item.Processed, &item.Archived, &created); err != nil {
			return nil, err
		}
		if content, err = s.open(content); err != nil {
			return nil, err
		}
		item.Content = string(content)
		item.CreatedAt = time.Unix(0, created)
		result = append(result, item)
	}
	return result, rows.Err()
}

func (s *SQLite) ArchiveInboxItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE inbox_items SET processed = 1, archived = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to archive inbox item: %w", err)
	}
	return oneAffected(res)
}

func (s *SQLite) DeleteInboxItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inbox_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inbox item: %w", err)
	}
	return oneAffected(res)
}

// oneAffected maps "zero rows touched" to ErrNotFound.
func oneAffected(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}
