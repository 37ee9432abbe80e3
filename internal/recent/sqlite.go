package recent

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db  *sql.DB
	max int
}

const schema = `
CREATE TABLE IF NOT EXISTS recent_documents (
  path TEXT PRIMARY KEY,
  opened_at TIMESTAMP NOT NULL,
  seq INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recent_documents_seq ON recent_documents(seq);
`

func openSQLite(ctx context.Context, path string, max int) (*sqliteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps :memory: databases alive and serialises writers.
	dbh.SetMaxOpenConns(1)
	// The host and one-shot CLI processes share the file.
	for _, p := range []string{`PRAGMA busy_timeout = 5000;`, `PRAGMA journal_mode=WAL;`} {
		if _, err := dbh.ExecContext(ctx, p); err != nil {
			_ = dbh.Close()
			return nil, err
		}
	}
	if _, err := dbh.ExecContext(ctx, schema); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteStore{db: dbh, max: max}, nil
}

func (s *sqliteStore) Add(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO recent_documents(path, opened_at, seq)
VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM recent_documents))
ON CONFLICT(path) DO UPDATE SET opened_at = excluded.opened_at, seq = excluded.seq`,
		path, time.Now().UTC()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
DELETE FROM recent_documents
WHERE path NOT IN (SELECT path FROM recent_documents ORDER BY seq DESC LIMIT ?)`, s.max); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqliteStore) List(ctx context.Context, limit int) ([]Doc, error) {
	q := `SELECT path, opened_at FROM recent_documents ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Doc
	for rows.Next() {
		var d Doc
		if err := rows.Scan(&d.Path, &d.OpenedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recent_documents`)
	return err
}

func (s *sqliteStore) Close() error { return s.db.Close() }
