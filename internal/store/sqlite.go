package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS uploads (
	id          TEXT PRIMARY KEY,
	actor       TEXT NOT NULL,
	filename    TEXT NOT NULL,
	row_count   INTEGER NOT NULL,
	alert_count INTEGER NOT NULL DEFAULT 0,
	uploaded_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_uploads_uploaded_at ON uploads(uploaded_at);
CREATE INDEX IF NOT EXISTS idx_uploads_actor ON uploads(actor);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AppendUpload(ctx context.Context, entry UploadEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.UploadedAt.IsZero() {
		entry.UploadedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (id, actor, filename, row_count, alert_count, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Actor, entry.Filename, entry.RowCount, entry.AlertCount, entry.UploadedAt,
	)
	return eris.Wrap(err, "sqlite: insert upload")
}

func (s *SQLiteStore) ListUploads(ctx context.Context, limit int) ([]UploadEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, actor, filename, row_count, alert_count, uploaded_at FROM uploads ORDER BY uploaded_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list uploads")
	}
	defer rows.Close()

	var entries []UploadEntry
	for rows.Next() {
		var e UploadEntry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Filename, &e.RowCount, &e.AlertCount, &e.UploadedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan upload")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: iterate uploads")
}
