package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/scanworks/passport-scanner/internal/common"
	"github.com/scanworks/passport-scanner/internal/normalize"
)

// Entry is one recorded scan.
type Entry struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	DocumentID string    `json:"document_id"`
	Surname    string    `json:"surname"`
	GivenName  string    `json:"given_name"`
	Country    string    `json:"country"`
	BirthDate  string    `json:"birth_date"`
	ScannedAt  time.Time `json:"scanned_at"`
}

// Store persists completed scans. It keeps a summary of each record, not
// the full document: history answers "what was scanned when", exports
// answer everything else.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS scan_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	filename    TEXT NOT NULL,
	document_id TEXT NOT NULL,
	surname     TEXT NOT NULL DEFAULT '',
	given_name  TEXT NOT NULL DEFAULT '',
	country     TEXT NOT NULL DEFAULT '',
	birth_date  TEXT NOT NULL DEFAULT '',
	scanned_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scan_history_document_id ON scan_history(document_id);
`

// Open opens (creating if needed) the history database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// modernc.org/sqlite serializes at the driver level; a single
	// connection avoids SQLITE_BUSY under concurrent recorders.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return NewStore(db, logger), nil
}

// NewStore wraps an existing database handle; the schema must already
// exist. Used directly by tests.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger, now: time.Now}
}

func (s *Store) Close() error { return s.db.Close() }

// RecordScan inserts one completed scan.
func (s *Store) RecordScan(ctx context.Context, filename string, rec normalize.NormalizedRecord) error {
	const q = `INSERT INTO scan_history (filename, document_id, surname, given_name, country, birth_date, scanned_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		filename,
		rec.ID,
		rec.Surname,
		rec.GivenName,
		rec.BirthPlace,
		rec.BirthDate,
		s.now().UTC(),
	)
	if err != nil {
		return common.WrapError(common.ErrInternal, "record scan", err)
	}
	s.logger.Info("history.record.ok", "document_id", rec.ID, "filename", filename)
	return nil
}

// List returns the most recent entries, newest first, capped at limit.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	const q = `SELECT id, filename, document_id, surname, given_name, country, birth_date, scanned_at
FROM scan_history ORDER BY scanned_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, common.WrapError(common.ErrInternal, "list history", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("history.rows_close_error", "error", err)
		}
	}()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Filename, &e.DocumentID, &e.Surname, &e.GivenName, &e.Country, &e.BirthDate, &e.ScannedAt); err != nil {
			return nil, common.WrapError(common.ErrInternal, "scan history row", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(common.ErrInternal, "iterate history", err)
	}
	return out, nil
}

// CountByDocument reports how many times a document id has been recorded
// across all sessions.
func (s *Store) CountByDocument(ctx context.Context, documentID string) (int, error) {
	const q = `SELECT COUNT(*) FROM scan_history WHERE document_id = ?`
	var n int
	if err := s.db.QueryRowContext(ctx, q, documentID).Scan(&n); err != nil {
		return 0, common.WrapError(common.ErrInternal, "count history", err)
	}
	return n, nil
}
