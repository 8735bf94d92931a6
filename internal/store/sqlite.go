package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/reachpoint/provider-verify/internal/verify"
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
CREATE TABLE IF NOT EXISTS decisions (
	id         TEXT PRIMARY KEY,
	lookup_key TEXT NOT NULL UNIQUE,
	provider   TEXT NOT NULL,
	location   TEXT NOT NULL DEFAULT '',
	decision   TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_lookup_key ON decisions(lookup_key);
CREATE INDEX IF NOT EXISTS idx_decisions_expires_at ON decisions(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetDecision(ctx context.Context, key string) (*CachedDecision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, lookup_key, provider, location, decision, created_at, expires_at FROM decisions
		 WHERE lookup_key = ? AND expires_at > datetime('now')
		 LIMIT 1`,
		key,
	)

	var cd CachedDecision
	var decisionJSON string
	err := row.Scan(&cd.ID, &cd.Key, &cd.Provider, &cd.Location, &decisionJSON, &cd.CreatedAt, &cd.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get decision")
	}
	if err := json.Unmarshal([]byte(decisionJSON), &cd.Decision); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal decision")
	}
	return &cd, nil
}

func (s *SQLiteStore) SetDecision(ctx context.Context, key, provider, location string, d verify.Decision, ttl time.Duration) error {
	id := uuid.New().String()
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	decisionJSON, err := json.Marshal(d)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal decision")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, lookup_key, provider, location, decision, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (lookup_key) DO UPDATE SET decision = excluded.decision,
		   created_at = excluded.created_at, expires_at = excluded.expires_at`,
		id, key, provider, location, string(decisionJSON), now, expiresAt,
	)
	return eris.Wrap(err, "sqlite: set decision")
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM decisions WHERE expires_at <= datetime('now')`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired decisions")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}
